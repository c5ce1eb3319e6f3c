// Package config loads and validates the runtime YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"etf-market-maker/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env      string         `yaml:"env"`
	Session  SessionConfig  `yaml:"session"`
	Quoting  QuotingConfig  `yaml:"quoting"`
	Logging  logger.Config  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Recorder RecorderConfig `yaml:"recorder"`
}

// SessionConfig points at the exchange gateway.
type SessionConfig struct {
	URL string `yaml:"url"`
}

// QuotingConfig holds the engine parameters. MarginBasis and MaxOrderDepth
// are hot-reloadable; the rest is fixed per session.
type QuotingConfig struct {
	MarginBasis   int64 `yaml:"marginBasis"`
	MaxOrderDepth int   `yaml:"maxOrderDepth"`
	PositionLimit int64 `yaml:"positionLimit"`
	TickSize      int64 `yaml:"tickSize"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type RecorderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	cfg := AppConfig{Logging: logger.DefaultConfig()}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides deployment-specific
// fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("MM_SESSION_URL"); v != "" {
		cfg.Session.URL = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present and in range.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Session.URL == "" {
		return errors.New("session.url is required (or MM_SESSION_URL)")
	}
	q := cfg.Quoting
	if q.MarginBasis < 0 || q.MarginBasis >= 10000 {
		return fmt.Errorf("quoting.marginBasis %d out of range [0,10000)", q.MarginBasis)
	}
	if q.MaxOrderDepth <= 0 {
		return errors.New("quoting.maxOrderDepth must be > 0")
	}
	if q.PositionLimit <= 0 {
		return errors.New("quoting.positionLimit must be > 0")
	}
	if q.TickSize <= 0 {
		return errors.New("quoting.tickSize must be > 0")
	}
	if cfg.Recorder.Enabled && cfg.Recorder.Path == "" {
		return errors.New("recorder.path is required when recorder.enabled")
	}
	return nil
}
