package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Port            string        `env:"PORT" envDefault:"5175"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ClientOrigin    string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	TokenSecret     string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	TokenTTL        time.Duration `env:"GAME_TOKEN_TTL" envDefault:"2h"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`
	SessionIdle     time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SweepInterval   time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	UpstreamTimeout time.Duration `env:"AKINATOR_TIMEOUT" envDefault:"15s"`
	UpstreamBaseURL string        `env:"AKINATOR_BASE_URL"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL <= 0 || cfg.SessionIdle <= 0 || cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("parse env: durations must be positive")
	}
	return cfg, nil
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }
