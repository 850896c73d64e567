package akinator

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFullGame(t *testing.T) {
	f := newFakeUpstream(t)
	s := f.session(WithTheme(ThemeObjects), WithChildMode(true))
	ctx := context.Background()

	q, err := s.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Is your character real?", q)
	assert.True(t, s.Started())
	assert.Equal(t, 0, s.Step())
	assert.Equal(t, 0.0, s.Progression())

	start := f.query("/new_session")
	assert.Equal(t, "jQuery331023608747682107778_1700000000", start.Get("callback"))
	assert.Equal(t, f.URL+"/ws", start.Get("urlApiWs"))
	assert.Equal(t, "uid-123", start.Get("uid_ext_session"))
	assert.Equal(t, "NDYuMTA1LjExMC40NQ==", start.Get("frontaddr"))
	assert.Equal(t, "true", start.Get("childMod"))
	assert.Equal(t, "1", start.Get("partner"))
	assert.Equal(t, "website-desktop", start.Get("player"))
	assert.Equal(t, "ETAT<>'AV'", start.Get("constraint"))
	assert.Equal(t, "ETAT='EN'", start.Get("soft_constraint"))
	assert.Equal(t, "cat=1", start.Get("question_filter"))
	assert.Equal(t, "XMLHttpRequest", f.header("/new_session").Get("X-Requested-With"))

	for s.Progression() < 80 {
		q, err = s.Answer(ctx, AnswerYes)
		require.NoError(t, err)
	}
	assert.Equal(t, "Question 4?", q)
	assert.Equal(t, 4, s.Step())
	assert.InDelta(t, 80.5, s.Progression(), 0.0001)

	ans := f.query("/answer_api")
	assert.Equal(t, "0", ans.Get("answer"))
	assert.Equal(t, "3", ans.Get("step"))
	assert.Equal(t, "42", ans.Get("session"))
	assert.Equal(t, "987654", ans.Get("signature"))

	guess, err := s.Win(ctx)
	require.NoError(t, err)
	require.NotNil(t, guess)
	assert.Equal(t, "Mario", guess.Name)
	assert.Equal(t, "https://photos.example/mario.jpg", guess.AbsolutePicturePath)
	assert.InDelta(t, 0.93, guess.Probability(), 0.0001)
	assert.Len(t, s.Guesses(), 2)
	assert.Equal(t, "4", f.query("/ws/list").Get("step"))

	snap := s.Snapshot()
	assert.Equal(t, ThemeObjects, snap.Theme)
	assert.True(t, snap.ChildMode)
	require.NotNil(t, snap.FirstGuess)
	assert.Equal(t, "Mario", snap.FirstGuess.Name)
}

func TestSessionDefaultsNoChildMode(t *testing.T) {
	f := newFakeUpstream(t)
	s := f.session()

	_, err := s.Start(context.Background())
	require.NoError(t, err)

	start := f.query("/new_session")
	assert.Equal(t, "false", start.Get("childMod"))
	assert.Equal(t, "", start.Get("soft_constraint"))
	assert.Equal(t, "", start.Get("question_filter"))
	assert.Equal(t, LanguageEnglish, s.Language())
	assert.Equal(t, ThemeCharacters, s.Theme())
}

func TestSessionBack(t *testing.T) {
	f := newFakeUpstream(t)
	s := f.session()
	ctx := context.Background()

	_, err := s.Start(ctx)
	require.NoError(t, err)

	_, err = s.Back(ctx)
	require.ErrorIs(t, err, ErrCantGoBackAnyFurther)
	assert.Zero(t, f.count("/ws/cancel_answer"), "no request on the first question")

	_, err = s.Answer(ctx, AnswerNo)
	require.NoError(t, err)
	_, err = s.Answer(ctx, AnswerProbably)
	require.NoError(t, err)
	require.Equal(t, 2, s.Step())

	q, err := s.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Question 1?", q)
	assert.Equal(t, 1, s.Step())

	back := f.query("/ws/cancel_answer")
	assert.Equal(t, "-1", back.Get("answer"))
	assert.Equal(t, "2", back.Get("step"))
}

func TestSessionNotStarted(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	_, err := s.Answer(ctx, AnswerYes)
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = s.Back(ctx)
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = s.Win(ctx)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSessionInvalidAnswer(t *testing.T) {
	f := newFakeUpstream(t)
	s := f.session()
	_, err := s.Start(context.Background())
	require.NoError(t, err)

	_, err = s.Answer(context.Background(), Answer(9))
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	assert.Zero(t, f.count("/answer_api"))
}

func TestSessionCompletionErrors(t *testing.T) {
	tests := []struct {
		completion string
		want       error
	}{
		{"KO - SERVER DOWN", ErrServersDown},
		{"KO - TECHNICAL ERROR", ErrTechnicalError},
		{"KO - TIMEOUT", ErrTimeout},
		{"KO - ELEM LIST IS EMPTY", ErrNoMoreQuestions},
		{"WARN - NO QUESTION", ErrNoMoreQuestions},
		{"KO - SOMETHING NEW", ErrConnection},
	}
	for _, tt := range tests {
		t.Run(tt.completion, func(t *testing.T) {
			f := newFakeUpstream(t)
			s := f.session()
			ctx := context.Background()
			_, err := s.Start(ctx)
			require.NoError(t, err)
			_, err = s.Answer(ctx, AnswerYes)
			require.NoError(t, err)
			before := s.Snapshot()

			f.set(func(f *fakeUpstream) { f.completions["/answer_api"] = tt.completion })
			_, err = s.Answer(ctx, AnswerYes)
			require.ErrorIs(t, err, tt.want)

			var ce *CompletionError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.completion, ce.Completion)
			assert.Equal(t, "answer_api", ce.Op)
			assert.Equal(t, before, s.Snapshot(), "failed call must not mutate state")
		})
	}
}

func TestSessionStartFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fakeUpstream)
		want  error
	}{
		{
			name:  "no server list",
			setup: func(f *fakeUpstream) { f.bodies["/"] = "<html>maintenance</html>" },
			want:  ErrNoDataFound,
		},
		{
			name:  "no session vars",
			setup: func(f *fakeUpstream) { f.bodies["/game"] = "<html></html>" },
			want:  ErrNoDataFound,
		},
		{
			name:  "home page error status",
			setup: func(f *fakeUpstream) { f.statuses["/"] = http.StatusServiceUnavailable },
			want:  ErrConnection,
		},
		{
			name:  "servers down",
			setup: func(f *fakeUpstream) { f.completions["/new_session"] = "KO - SERVER DOWN" },
			want:  ErrServersDown,
		},
		{
			name:  "garbage body",
			setup: func(f *fakeUpstream) { f.bodies["/new_session"] = "cb(not json)" },
			want:  ErrParseResponse,
		},
		{
			name:  "missing parameters",
			setup: func(f *fakeUpstream) { f.bodies["/new_session"] = `cb({"completion":"OK"})` },
			want:  ErrParseResponse,
		},
		{
			name: "bad progression",
			setup: func(f *fakeUpstream) {
				f.bodies["/new_session"] = `cb({"completion":"OK","parameters":{"identification":{"session":"1","signature":"2"},"step_information":{"question":"q","progression":"lots","step":"0"}}})`
			},
			want: ErrParseResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeUpstream(t)
			f.set(tt.setup)
			s := f.session()

			_, err := s.Start(context.Background())
			require.ErrorIs(t, err, tt.want)
			assert.False(t, s.Started())
		})
	}
}

func TestSessionHTTPError(t *testing.T) {
	f := newFakeUpstream(t)
	s := f.session()
	_, err := s.Start(context.Background())
	require.NoError(t, err)

	f.set(func(f *fakeUpstream) { f.statuses["/ws/list"] = http.StatusBadGateway })
	_, err = s.Win(context.Background())

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadGateway, he.StatusCode)
	assert.Equal(t, "list", he.Op)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestSessionWinEmptyList(t *testing.T) {
	f := newFakeUpstream(t)
	f.set(func(f *fakeUpstream) { f.guesses = nil })
	s := f.session()
	_, err := s.Start(context.Background())
	require.NoError(t, err)

	g, err := s.Win(context.Background())
	require.NoError(t, err)
	assert.Nil(t, g)
	assert.Empty(t, s.Guesses())
}

func TestSessionRestartClearsGuesses(t *testing.T) {
	f := newFakeUpstream(t)
	s := f.session()
	ctx := context.Background()
	_, err := s.Start(ctx)
	require.NoError(t, err)
	_, err = s.Win(ctx)
	require.NoError(t, err)
	require.NotNil(t, s.FirstGuess())

	_, err = s.Start(ctx)
	require.NoError(t, err)
	assert.Nil(t, s.FirstGuess())
	assert.Empty(t, s.Guesses())
}

func TestSessionCanceledContext(t *testing.T) {
	f := newFakeUpstream(t)
	s := f.session()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestSessionConcurrentAnswersAreSerialised(t *testing.T) {
	f := newFakeUpstream(t)
	s := f.session()
	ctx := context.Background()
	_, err := s.Start(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Answer(ctx, AnswerIdk)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 4, s.Step())
	assert.Equal(t, 4, f.count("/answer_api"))
}
