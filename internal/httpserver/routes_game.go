// internal/httpserver/routes_game.go
//
// Game routes. Each hosted game is one akinator.Session in the store.
//   - POST   /game/new    → start a session, returns a game token + first question
//   - GET    /game        → snapshot of the session
//   - POST   /game/answer → answer the current question
//   - POST   /game/back   → undo the last answer
//   - POST   /game/win    → ask for the guesses
//   - DELETE /game        → drop the session
//
// Upstream failures are mapped to HTTP statuses in upstreamError. A remote
// timeout also evicts the session: the service has forgotten it.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/akinator-go/internal/akinator"
	"github.com/robalobadob/akinator-go/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Group(func(r chi.Router) {
		r.Use(s.requireGame())
		r.Get("/game", s.handleState)
		r.Delete("/game", s.handleDelete)
		r.Post("/game/answer", s.handleAnswer)
		r.Post("/game/back", s.handleBack)
		r.Post("/game/win", s.handleWin)
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Language  string `json:"language"`  // subdomain, name or BCP 47 tag; default "en"
	Theme     string `json:"theme"`     // "characters" | "objects" | "animals"
	ChildMode bool   `json:"childMode"`
}
type newGameRes struct {
	GameID    string `json:"gameId"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	stepRes
}

// stepRes is the body of every step-changing response.
type stepRes struct {
	Question    string  `json:"question"`
	Step        int     `json:"step"`
	Progression float64 `json:"progression"`
}

func stepOf(st akinator.State) stepRes {
	return stepRes{Question: st.Question, Step: st.Step, Progression: st.Progression}
}

// handleNewGame starts a remote session and stores it under a fresh id.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	lang := akinator.LanguageEnglish
	if req.Language != "" {
		l, err := akinator.ParseLanguage(req.Language)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unsupported_language", err.Error())
			return
		}
		lang = l
	}

	opts := append([]akinator.Option{
		akinator.WithLanguage(lang),
		akinator.WithTheme(akinator.ParseTheme(req.Theme)),
		akinator.WithChildMode(req.ChildMode),
	}, s.sessionOpts...)
	sess := akinator.NewSession(opts...)
	if _, err := sess.Start(r.Context()); err != nil {
		s.upstreamError(w, r.Context(), nil, err)
		return
	}

	e := store.NewEntry(sess, s.now())
	if err := s.store.Save(r.Context(), e); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	tok, exp, err := s.signGameToken(e.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign game token")
		writeError(w, http.StatusInternalServerError, "sign_failed", "")
		return
	}
	s.setGameCookie(w, tok, exp)

	log.Info().Str("gameId", e.ID).Str("lang", string(lang)).Stringer("theme", sess.Theme()).Msg("game started")
	_ = json.NewEncoder(w).Encode(newGameRes{
		GameID:    e.ID,
		Token:     tok,
		ExpiresAt: exp.Unix(),
		stepRes:   stepOf(sess.Snapshot()),
	})
}

type stateRes struct {
	GameID string `json:"gameId"`
	akinator.State
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r.Context())
	_ = json.NewEncoder(w).Encode(stateRes{GameID: e.ID, State: e.Session.Snapshot()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r.Context())
	if err := s.store.Delete(r.Context(), e.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "delete_failed", "")
		return
	}
	s.clearGameCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// answerReq is the payload for POST /game/answer. The answer may be any form
// akinator.ParseAnswer accepts, as a string or a number.
type answerReq struct {
	Answer *akinator.Answer `json:"answer"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, akinator.ErrInvalidAnswer) {
			writeError(w, http.StatusBadRequest, "invalid_answer", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if req.Answer == nil {
		writeError(w, http.StatusBadRequest, "invalid_answer", "answer is required")
		return
	}

	e := entryFrom(r.Context())
	if _, err := e.Session.Answer(r.Context(), *req.Answer); err != nil {
		s.upstreamError(w, r.Context(), e, err)
		return
	}
	st := e.Session.Snapshot()
	log.Debug().Str("gameId", e.ID).Stringer("answer", *req.Answer).Int("step", st.Step).Float64("progression", st.Progression).Msg("answered")
	_ = json.NewEncoder(w).Encode(stepOf(st))
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r.Context())
	if _, err := e.Session.Back(r.Context()); err != nil {
		s.upstreamError(w, r.Context(), e, err)
		return
	}
	_ = json.NewEncoder(w).Encode(stepOf(e.Session.Snapshot()))
}

type winRes struct {
	Guess   *akinator.Guess  `json:"guess"`
	Guesses []akinator.Guess `json:"guesses"`
}

func (s *Server) handleWin(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r.Context())
	g, err := e.Session.Win(r.Context())
	if err != nil {
		s.upstreamError(w, r.Context(), e, err)
		return
	}
	guesses := e.Session.Guesses()
	if guesses == nil {
		guesses = []akinator.Guess{}
	}
	if g != nil {
		log.Info().Str("gameId", e.ID).Str("guess", g.Name).Int("step", e.Session.Step()).Msg("guessed")
	}
	_ = json.NewEncoder(w).Encode(winRes{Guess: g, Guesses: guesses})
}

// upstreamError maps a Session error to a status and error code. e may be nil
// when no session is stored yet.
func (s *Server) upstreamError(w http.ResponseWriter, ctx context.Context, e *store.Entry, err error) {
	status, code := http.StatusBadGateway, "upstream_error"
	var he *akinator.HTTPError
	switch {
	case errors.Is(err, akinator.ErrInvalidAnswer):
		status, code = http.StatusBadRequest, "invalid_answer"
	case errors.Is(err, akinator.ErrCantGoBackAnyFurther):
		status, code = http.StatusConflict, "cant_go_back"
	case errors.Is(err, akinator.ErrNoMoreQuestions):
		status, code = http.StatusGone, "no_more_questions"
	case errors.Is(err, akinator.ErrTimeout):
		status, code = http.StatusGatewayTimeout, "session_timeout"
		if e != nil {
			_ = s.store.Delete(ctx, e.ID)
		}
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, akinator.ErrServersDown):
		code = "servers_down"
	case errors.Is(err, akinator.ErrTechnicalError):
		code = "technical_error"
	case errors.As(err, &he):
		code = "upstream_status"
	case errors.Is(err, akinator.ErrNoDataFound), errors.Is(err, akinator.ErrParseResponse):
		code = "upstream_unreadable"
	case errors.Is(err, akinator.ErrNotStarted):
		status, code = http.StatusConflict, "not_started"
	}

	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	if e != nil {
		ev = ev.Str("gameId", e.ID)
	}
	ev.Err(err).Int("status", status).Str("code", code).Msg("akinator call failed")
	writeError(w, status, code, err.Error())
}
