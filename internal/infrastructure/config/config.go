// Package config loads engine configuration from environment variables,
// with optional threshold overrides from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Storage   StorageConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// EngineConfig holds session-engine thresholds.
type EngineConfig struct {
	// MinSessionSeconds is the shortest session that gets persisted
	MinSessionSeconds int `envconfig:"MIN_SESSION_SECONDS" default:"60" yaml:"min_session_seconds"`
	// MinDistractionSeconds is the shortest tab-away interval recorded as a distraction
	MinDistractionSeconds int `envconfig:"MIN_DISTRACTION_SECONDS" default:"10" yaml:"min_distraction_seconds"`
	// InactivitySeconds is how long without signals opens an inactivity period
	InactivitySeconds int `envconfig:"INACTIVITY_SECONDS" default:"30" yaml:"inactivity_seconds"`
	// SampleSeconds is the inactivity sampler cadence
	SampleSeconds int `envconfig:"SAMPLE_SECONDS" default:"5" yaml:"sample_seconds"`

	StudyDurationMinutes    int `envconfig:"STUDY_DURATION_MINUTES" default:"25" yaml:"study_duration_minutes"`
	ShortBreakMinutes       int `envconfig:"SHORT_BREAK_MINUTES" default:"5" yaml:"short_break_minutes"`
	LongBreakMinutes        int `envconfig:"LONG_BREAK_MINUTES" default:"15" yaml:"long_break_minutes"`
	SessionsBeforeLongBreak int `envconfig:"SESSIONS_BEFORE_LONG_BREAK" default:"4" yaml:"sessions_before_long_break"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	Dir string `envconfig:"STORAGE_DIR" default:"./data"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Engine: EngineConfig{
			MinSessionSeconds:       60,
			MinDistractionSeconds:   10,
			InactivitySeconds:       30,
			SampleSeconds:           5,
			StudyDurationMinutes:    25,
			ShortBreakMinutes:       5,
			LongBreakMinutes:        15,
			SessionsBeforeLongBreak: 4,
		},
		Storage: StorageConfig{
			Dir: "./data",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// ApplyOverrides merges engine threshold overrides from a YAML file.
// A missing file is not an error; a malformed one is.
func (c *Config) ApplyOverrides(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read overrides: %w", err)
	}

	var overrides EngineConfig
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse overrides: %w", err)
	}

	if overrides.MinSessionSeconds > 0 {
		c.Engine.MinSessionSeconds = overrides.MinSessionSeconds
	}
	if overrides.MinDistractionSeconds > 0 {
		c.Engine.MinDistractionSeconds = overrides.MinDistractionSeconds
	}
	if overrides.InactivitySeconds > 0 {
		c.Engine.InactivitySeconds = overrides.InactivitySeconds
	}
	if overrides.SampleSeconds > 0 {
		c.Engine.SampleSeconds = overrides.SampleSeconds
	}
	if overrides.StudyDurationMinutes > 0 {
		c.Engine.StudyDurationMinutes = overrides.StudyDurationMinutes
	}
	if overrides.ShortBreakMinutes > 0 {
		c.Engine.ShortBreakMinutes = overrides.ShortBreakMinutes
	}
	if overrides.LongBreakMinutes > 0 {
		c.Engine.LongBreakMinutes = overrides.LongBreakMinutes
	}
	if overrides.SessionsBeforeLongBreak > 0 {
		c.Engine.SessionsBeforeLongBreak = overrides.SessionsBeforeLongBreak
	}

	return nil
}
