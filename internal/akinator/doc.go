// Package akinator is a client for the Akinator web game.
//
// The service has no published API. A [Session] drives the same endpoints the
// website's JavaScript does: it scrapes the home page for the game server,
// scrapes the game page for the session variables, then talks JSONP to
// new_session, answer_api, cancel_answer and list.
//
// A typical game:
//
//	s := akinator.NewSession(akinator.WithTheme(akinator.ThemeAnimals))
//	q, err := s.Start(ctx)
//	for err == nil && s.Progression() < 80 {
//		q, err = s.Answer(ctx, akinator.AnswerYes)
//	}
//	guess, err := s.Win(ctx)
//
// Sessions serialise their own calls and are safe to share between goroutines.
package akinator
