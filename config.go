// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mdhender/sqlitelife/events"
)

// dirPermissions is the permission mode for a newly created database directory.
const dirPermissions = 0750

// Config holds manager configuration options.
type Config struct {
	// Dir is the directory holding the database files. Each database is
	// stored as Dir/<name>.db. Must be absolute; created if missing.
	Dir string

	// Logger for operational logging. Uses slog.Default() if nil.
	Logger *slog.Logger

	// Bus receives created, upgraded and cleaned notifications. Optional.
	Bus *events.Bus

	// BusyTimeout is how long SQLite waits on a locked database. Default: 5s.
	BusyTimeout time.Duration

	// OpenTimeout bounds opening a database, including table creation and
	// upgrades. Default: 90s.
	OpenTimeout time.Duration
}

// defaults returns a copy of cfg with default values applied.
func (cfg Config) defaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 90 * time.Second
	}
	return cfg
}

// prepareDir checks that Dir is usable and creates it if needed.
func (cfg Config) prepareDir() error {
	if cfg.Dir == "" {
		return fmt.Errorf("database directory is required")
	}
	if !filepath.IsAbs(cfg.Dir) {
		return fmt.Errorf("%s: database directory must be absolute", cfg.Dir)
	}
	if fileExists(cfg.Dir) && !isDirectory(cfg.Dir) {
		return fmt.Errorf("%s: not a directory", cfg.Dir)
	}
	if err := os.MkdirAll(cfg.Dir, dirPermissions); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	return nil
}

// pathFor returns the file path for a database name.
func (cfg Config) pathFor(name string) string {
	return filepath.Join(cfg.Dir, name+".db")
}
