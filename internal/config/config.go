// Package config describes runtime settings for the server.
//
// Values come from the environment (optionally seeded from a .env file by
// main) and are validated once at startup.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	devSecret = "dev_secret_change_me"
	devSalt   = "local_dev_salt"
)

// Config holds every runtime setting.
type Config struct {
	Env       string `env:"APP_ENV"    envDefault:"dev"`
	Port      string `env:"PORT"       envDefault:"5175"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json|console

	// WordsFile is the vocabulary path; empty uses the embedded list.
	WordsFile  string `env:"WORDS_FILE"`
	MaxGuesses int    `env:"MAX_GUESSES" envDefault:"6"`

	SessionTTL     time.Duration `env:"SESSION_TTL"     envDefault:"24h"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	JWTSecret      string        `env:"JWT_SECRET"      envDefault:"dev_secret_change_me"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN"   envDefault:"http://localhost:5173"`
	DailySalt      string        `env:"DAILY_SALT"      envDefault:"local_dev_salt"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that env parsing cannot.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is empty")
	}
	if c.MaxGuesses < 1 {
		return fmt.Errorf("MAX_GUESSES must be positive, got %d", c.MaxGuesses)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is empty")
	}
	if c.Env != "dev" && c.JWTSecret == devSecret {
		return fmt.Errorf("refuse to run with default JWT_SECRET in %s", c.Env)
	}
	if c.Env != "dev" && (c.DailySalt == "" || c.DailySalt == devSalt) {
		return fmt.Errorf("refuse to run with default DAILY_SALT in %s", c.Env)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("unsupported LOG_FORMAT=%q (want json|console)", c.LogFormat)
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }
