// internal/akinator/session.go
//
// Session: one game against the remote service.
// Lifecycle:
//   - NewSession configures language/theme/child mode (no I/O).
//   - Start performs the handshake and returns the first question.
//   - Answer/Back move the game forward/backward one step.
//   - Win asks for the list of candidates.
//
// Every call holds the session mutex for its whole duration, so concurrent
// callers are serialised and never interleave steps. A failed call leaves the
// session exactly as it was.

package akinator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Session is a stateful handle for one in-progress game.
type Session struct {
	mu     sync.Mutex
	client *http.Client
	log    zerolog.Logger
	cfg    sessionConfig

	// handshake results
	base           string
	wsURL          string
	uid            string
	frontaddr      string
	session        string
	signature      string
	callback       string
	softConstraint string
	questionFilter string
	started        bool

	// game progress
	question    string
	progression float64
	step        int
	firstGuess  *Guess
	guesses     []Guess
}

// NewSession constructs an unstarted session.
func NewSession(opts ...Option) *Session {
	cfg := defaultSessionConfig()
	for _, o := range opts {
		o(&cfg)
	}
	client := cfg.client
	if client == nil {
		client = newHTTPClient(cfg.timeout)
	}
	base := cfg.baseURL
	if base == "" {
		base = cfg.language.baseURL()
	}
	return &Session{
		client: client,
		log:    cfg.log.With().Str("component", "akinator").Str("lang", string(cfg.language)).Logger(),
		cfg:    cfg,
		base:   strings.TrimRight(base, "/"),
	}
}

// Start performs the handshake and returns the first question. Calling Start
// again begins a fresh game on the same handle.
func (s *Session) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	home, err := s.get(ctx, "home", s.base, nil)
	if err != nil {
		return "", err
	}
	wsURL, err := findServer(home, s.cfg.theme)
	if err != nil {
		return "", err
	}

	game, err := s.get(ctx, "game", s.base+"/game", nil)
	if err != nil {
		return "", err
	}
	uid, frontaddr, err := findSessionVars(game)
	if err != nil {
		return "", err
	}

	callback := callbackPrefix + strconv.FormatInt(s.cfg.now().Unix(), 10)
	softConstraint, questionFilter := "", ""
	if s.cfg.childMode {
		softConstraint = "ETAT='EN'"
		questionFilter = "cat=1"
	}

	params := url.Values{}
	params.Set("callback", callback)
	params.Set("urlApiWs", wsURL)
	params.Set("partner", "1")
	params.Set("childMod", strconv.FormatBool(s.cfg.childMode))
	params.Set("player", "website-desktop")
	params.Set("uid_ext_session", uid)
	params.Set("frontaddr", frontaddr)
	params.Set("constraint", "ETAT<>'AV'")
	params.Set("soft_constraint", softConstraint)
	params.Set("question_filter", questionFilter)

	body, err := s.get(ctx, "new_session", s.base+"/new_session", params)
	if err != nil {
		return "", err
	}
	var resp startResponse
	if err := decodeJSONP("new_session", body, &resp); err != nil {
		return "", err
	}
	if resp.Parameters == nil {
		return "", fmt.Errorf("new_session: %w: missing parameters", ErrParseResponse)
	}
	ident := resp.Parameters.Identification
	if ident.Session == "" || ident.Signature == "" {
		return "", fmt.Errorf("new_session: %w: missing identification", ErrParseResponse)
	}
	info := resp.Parameters.StepInformation
	step, progression, err := info.parse()
	if err != nil {
		return "", fmt.Errorf("new_session: %w", err)
	}

	s.wsURL = strings.TrimRight(wsURL, "/")
	s.uid = uid
	s.frontaddr = frontaddr
	s.session = ident.Session
	s.signature = ident.Signature
	s.callback = callback
	s.softConstraint = softConstraint
	s.questionFilter = questionFilter
	s.started = true
	s.question = info.Question
	s.step = step
	s.progression = progression
	s.firstGuess = nil
	s.guesses = nil

	s.log.Debug().Str("session", s.session).Str("ws", s.wsURL).Msg("akinator session started")
	return s.question, nil
}

// Answer replies to the current question and returns the next one.
func (s *Session) Answer(ctx context.Context, a Answer) (string, error) {
	if !a.Valid() {
		return "", ErrInvalidAnswer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return "", ErrNotStarted
	}

	params := s.baseParams()
	params.Set("urlApiWs", s.wsURL)
	params.Set("frontaddr", s.frontaddr)
	params.Set("answer", strconv.Itoa(int(a)))
	params.Set("question_filter", s.questionFilter)

	if err := s.move(ctx, "answer_api", s.base+"/answer_api", params); err != nil {
		return "", err
	}
	return s.question, nil
}

// Back undoes the last answer and returns the previous question.
func (s *Session) Back(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return "", ErrNotStarted
	}
	if s.step == 0 {
		return "", ErrCantGoBackAnyFurther
	}

	params := s.baseParams()
	params.Set("answer", "-1")
	params.Set("question_filter", s.questionFilter)

	if err := s.move(ctx, "cancel_answer", s.wsURL+"/cancel_answer", params); err != nil {
		return "", err
	}
	return s.question, nil
}

// Win asks the service for its candidates. It returns the most likely one,
// or nil when the list is empty.
func (s *Session) Win(ctx context.Context) (*Guess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	body, err := s.get(ctx, "list", s.wsURL+"/list", s.baseParams())
	if err != nil {
		return nil, err
	}
	var resp listResponse
	if err := decodeJSONP("list", body, &resp); err != nil {
		return nil, err
	}
	if resp.Parameters == nil {
		return nil, fmt.Errorf("list: %w: missing parameters", ErrParseResponse)
	}

	guesses := make([]Guess, 0, len(resp.Parameters.Elements))
	for _, e := range resp.Parameters.Elements {
		guesses = append(guesses, e.Element)
	}
	s.guesses = guesses
	s.firstGuess = nil
	if len(guesses) > 0 {
		first := guesses[0]
		s.firstGuess = &first
	}
	s.log.Debug().Int("guesses", len(guesses)).Int("step", s.step).Msg("akinator win")
	if s.firstGuess == nil {
		return nil, nil
	}
	g := *s.firstGuess
	return &g, nil
}

// baseParams are the parameters every post-handshake call carries.
func (s *Session) baseParams() url.Values {
	p := url.Values{}
	p.Set("callback", s.callback)
	p.Set("childMod", strconv.FormatBool(s.cfg.childMode))
	p.Set("session", s.session)
	p.Set("signature", s.signature)
	p.Set("step", strconv.Itoa(s.step))
	return p
}

// move performs a step-changing call and applies the returned step info.
func (s *Session) move(ctx context.Context, op, endpoint string, params url.Values) error {
	body, err := s.get(ctx, op, endpoint, params)
	if err != nil {
		return err
	}
	var resp moveResponse
	if err := decodeJSONP(op, body, &resp); err != nil {
		return err
	}
	if resp.Parameters == nil {
		return fmt.Errorf("%s: %w: missing parameters", op, ErrParseResponse)
	}
	step, progression, err := resp.Parameters.parse()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.question = resp.Parameters.Question
	s.step = step
	s.progression = progression
	s.log.Debug().Str("op", op).Int("step", step).Float64("progression", progression).Msg("akinator step")
	return nil
}

// --- accessors ---

func (s *Session) Question() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}

func (s *Session) Progression() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progression
}

func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// FirstGuess returns a copy of the top candidate from the last Win, or nil.
func (s *Session) FirstGuess() *Guess {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.firstGuess == nil {
		return nil
	}
	g := *s.firstGuess
	return &g
}

// Guesses returns a copy of the candidates from the last Win.
func (s *Session) Guesses() []Guess {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Guess(nil), s.guesses...)
}

func (s *Session) Language() Language { return s.cfg.language }
func (s *Session) Theme() Theme       { return s.cfg.theme }
func (s *Session) ChildMode() bool    { return s.cfg.childMode }

// Snapshot returns a copy of the whole session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Language:    s.cfg.language,
		Theme:       s.cfg.theme,
		ChildMode:   s.cfg.childMode,
		Started:     s.started,
		Question:    s.question,
		Step:        s.step,
		Progression: s.progression,
		Guesses:     append([]Guess(nil), s.guesses...),
	}
	if s.firstGuess != nil {
		g := *s.firstGuess
		st.FirstGuess = &g
	}
	return st
}
