// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the festival process configuration.
type Config struct {
	DBPath     string `env:"FESTIVAL_DB" envDefault:"data/festival.db"`
	TuningPath string `env:"FESTIVAL_TUNING"`
	StorageKey string `env:"FESTIVAL_STORAGE_KEY" envDefault:"festival_state"`
	LogLevel   string `env:"FESTIVAL_LOG_LEVEL" envDefault:"info"`
	// Timezone decides when the calendar day rolls over.
	Timezone string `env:"FESTIVAL_TZ" envDefault:"Local"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.StorageKey == "" {
		return Config{}, fmt.Errorf("parse env: FESTIVAL_STORAGE_KEY must not be empty")
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level. Unknown names fall back to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
