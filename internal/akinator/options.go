package akinator

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

// DefaultTimeout bounds each upstream request of a default client.
const DefaultTimeout = 15 * time.Second

type sessionConfig struct {
	client    *http.Client
	now       func() time.Time
	log       zerolog.Logger
	language  Language
	baseURL   string
	theme     Theme
	childMode bool
	timeout   time.Duration
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		now:      time.Now,
		log:      zerolog.Nop(),
		language: LanguageEnglish,
		theme:    ThemeCharacters,
		timeout:  DefaultTimeout,
	}
}

// Option is a functional option for configuring a Session.
type Option func(*sessionConfig)

// WithLanguage selects the regional site.
func WithLanguage(l Language) Option {
	return func(c *sessionConfig) {
		if l != "" {
			c.language = l
		}
	}
}

// WithTheme selects what is being guessed.
func WithTheme(t Theme) Option {
	return func(c *sessionConfig) { c.theme = t }
}

// WithChildMode restricts questions and answers to child-safe content.
func WithChildMode(on bool) Option {
	return func(c *sessionConfig) { c.childMode = on }
}

// WithHTTPClient replaces the default client. The caller owns its timeout
// and cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *sessionConfig) { c.client = hc }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *sessionConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBaseURL overrides https://<language>.akinator.com.
func WithBaseURL(u string) Option {
	return func(c *sessionConfig) { c.baseURL = u }
}

// WithLogger sets the logger used for upstream calls.
func WithLogger(l zerolog.Logger) Option {
	return func(c *sessionConfig) { c.log = l }
}

// WithClock sets the time source used to build the JSONP callback name.
func WithClock(now func() time.Time) Option {
	return func(c *sessionConfig) {
		if now != nil {
			c.now = now
		}
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	// cookiejar.New never returns an error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &http.Client{Timeout: timeout, Jar: jar}
}
