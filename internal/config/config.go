// internal/config/config.go
//
// Process configuration, read from the environment (and a .env file when
// present, loaded by the caller through godotenv).
//
// Environment variables:
//   PORT=5175
//   LOG_LEVEL=info
//   CLIENT_ORIGIN=http://localhost:5173
//   NODE_ENV=production            (secure cookies)
//   PLAYER_TOKEN_SECRET=...        (HS256 key for player tokens)
//   PLAYER_TOKEN_TTL=336h
//   DAILY_SALT=...
//   DIFFICULTIES_FILE=/path/to/difficulties.yaml
//   HISTORY_LIMIT=500
//   SESSION_IDLE_TTL=30m

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

const devTokenSecret = "dev_secret_change_me"

// Config holds server settings.
type Config struct {
	Port             string        `env:"PORT" envDefault:"5175"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	ClientOrigin     string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Environment      string        `env:"NODE_ENV"`
	TokenSecret      string        `env:"PLAYER_TOKEN_SECRET" envDefault:"dev_secret_change_me"`
	TokenTTL         time.Duration `env:"PLAYER_TOKEN_TTL" envDefault:"336h"`
	DailySalt        string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	DifficultiesFile string        `env:"DIFFICULTIES_FILE"`
	HistoryLimit     int           `env:"HISTORY_LIMIT" envDefault:"500"`
	SessionIdleTTL   time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.Production() && c.TokenSecret == devTokenSecret {
		return Config{}, fmt.Errorf("parse env: PLAYER_TOKEN_SECRET must be set in production")
	}
	return c, nil
}

// Production reports whether secure cookies should be used.
func (c Config) Production() bool { return c.Environment == "production" }

// Level returns the zerolog level, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
