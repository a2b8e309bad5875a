package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds process configuration read from the environment
type Config struct {
	DBPath     string `env:"EXPANSIONSIM_DB_PATH" envDefault:"expansionsim.db"`
	OutDir     string `env:"EXPANSIONSIM_OUT_DIR" envDefault:"results"`
	ListenAddr string `env:"EXPANSIONSIM_LISTEN_ADDR" envDefault:":8080"`
	APIToken   string `env:"EXPANSIONSIM_API_TOKEN"` // empty disables bearer auth
	LogLevel   string `env:"EXPANSIONSIM_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured log level onto a slog.Level.
// Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
