// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package config loads the command-line tool's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig contains database file settings.
type DatabaseConfig struct {
	// Dir holds one <name>.db file per database. Relative paths are
	// resolved against the working directory.
	Dir string `yaml:"dir"`

	// BusyTimeout is the lock wait in seconds. SQLite's busy handler
	// cannot be disabled here; the minimum is 1.
	BusyTimeout int `yaml:"busy_timeout"`

	// OpenTimeout bounds open, create and upgrade, in seconds.
	OpenTimeout int `yaml:"open_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// BusyTimeoutDuration returns BusyTimeout as a time.Duration.
func (c DatabaseConfig) BusyTimeoutDuration() time.Duration {
	return time.Duration(c.BusyTimeout) * time.Second
}

// OpenTimeoutDuration returns OpenTimeout as a time.Duration.
func (c DatabaseConfig) OpenTimeoutDuration() time.Duration {
	return time.Duration(c.OpenTimeout) * time.Second
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The loading order is defaults, then the file (skipped when path is
// empty), then SQLITELIFE_* environment variables.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	dir, err := filepath.Abs(cfg.Database.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving database dir: %w", err)
	}
	cfg.Database.Dir = dir

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dir:         "./data",
			BusyTimeout: 5,
			OpenTimeout: 90,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
// Variables follow the pattern SQLITELIFE_SECTION_KEY.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SQLITELIFE_DATABASE_DIR"); v != "" {
		cfg.Database.Dir = v
	}
	if v := os.Getenv("SQLITELIFE_DATABASE_BUSY_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SQLITELIFE_DATABASE_BUSY_TIMEOUT: %w", err)
		}
		cfg.Database.BusyTimeout = n
	}
	if v := os.Getenv("SQLITELIFE_DATABASE_OPEN_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SQLITELIFE_DATABASE_OPEN_TIMEOUT: %w", err)
		}
		cfg.Database.OpenTimeout = n
	}
	if v := os.Getenv("SQLITELIFE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SQLITELIFE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Dir) == "" {
		return fmt.Errorf("database.dir is required")
	}
	if c.Database.BusyTimeout < 1 {
		return fmt.Errorf("database.busy_timeout must be at least 1 second")
	}
	if c.Database.OpenTimeout < 1 {
		return fmt.Errorf("database.open_timeout must be at least 1 second")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("logging.output must be stdout or stderr, got %q", c.Logging.Output)
	}
	return nil
}
