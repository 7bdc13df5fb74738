// Package config loads server settings from the environment (and a .env
// file in development).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads at start-up.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Env      string `env:"APP_ENV" envDefault:"development"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/app.db"`
	WordsFile    string `env:"WORDS_FILE"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"wordduel_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	DailySalt      string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	ChallengeRate  float64       `env:"COMPUTER_CHALLENGE_RATE" envDefault:"0.3"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Production reports whether APP_ENV is "production".
func (c Config) Production() bool { return c.Env == "production" }

// JWTTTL is the token lifetime.
func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the environment without touching .env.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.ChallengeRate < 0 || c.ChallengeRate > 1 {
		return fmt.Errorf("COMPUTER_CHALLENGE_RATE must be within [0,1], got %v", c.ChallengeRate)
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", c.JWTExpiresDays)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}
