// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !filepath.IsAbs(cfg.Database.Dir) {
		t.Errorf("Database.Dir = %q, want absolute path", cfg.Database.Dir)
	}
	if cfg.Database.BusyTimeoutDuration() != 5*time.Second {
		t.Errorf("BusyTimeoutDuration() = %v, want 5s", cfg.Database.BusyTimeoutDuration())
	}
	if cfg.Database.OpenTimeoutDuration() != 90*time.Second {
		t.Errorf("OpenTimeoutDuration() = %v, want 90s", cfg.Database.OpenTimeoutDuration())
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want text", cfg.Logging.Format)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
database:
  dir: `+dir+`
  busy_timeout: 2
  open_timeout: 10
logging:
  level: debug
  format: json
  output: stdout
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Dir != dir {
		t.Errorf("Database.Dir = %q, want %q", cfg.Database.Dir, dir)
	}
	if cfg.Database.BusyTimeout != 2 {
		t.Errorf("Database.BusyTimeout = %d, want 2", cfg.Database.BusyTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SQLITELIFE_DATABASE_DIR", dir)
	t.Setenv("SQLITELIFE_DATABASE_BUSY_TIMEOUT", "7")
	t.Setenv("SQLITELIFE_DATABASE_OPEN_TIMEOUT", "30")
	t.Setenv("SQLITELIFE_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Dir != dir {
		t.Errorf("Database.Dir = %q, want %q", cfg.Database.Dir, dir)
	}
	if cfg.Database.BusyTimeout != 7 {
		t.Errorf("Database.BusyTimeout = %d, want 7", cfg.Database.BusyTimeout)
	}
	if cfg.Database.OpenTimeoutDuration() != 30*time.Second {
		t.Errorf("OpenTimeoutDuration() = %v, want 30s", cfg.Database.OpenTimeoutDuration())
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "database: [unclosed"},
		{name: "negative busy timeout", content: "database:\n  busy_timeout: -1\n"},
		{name: "zero busy timeout", content: "database:\n  busy_timeout: 0\n"},
		{name: "zero open timeout", content: "database:\n  open_timeout: 0\n"},
		{name: "bad format", content: "logging:\n  format: xml\n"},
		{name: "bad output", content: "logging:\n  output: syslog\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_BadEnv(t *testing.T) {
	for _, key := range []string{"SQLITELIFE_DATABASE_BUSY_TIMEOUT", "SQLITELIFE_DATABASE_OPEN_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "soon")
			if _, err := Load(""); err == nil {
				t.Errorf("Load() expected error for non-numeric %s", key)
			}
		})
	}
}
