// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestRun_Commands tests the commands against a temporary data directory.
func TestRun_Commands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SQLITELIFE_CONFIG", "")
	t.Setenv("SQLITELIFE_DATABASE_DIR", dir)
	t.Setenv("SQLITELIFE_LOGGING_LEVEL", "error")
	ctx := context.Background()

	if err := run(ctx, []string{"status"}); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.db")); !os.IsNotExist(err) {
		t.Error("status must not create the database")
	}

	if err := run(ctx, []string{"open"}); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.db")); err != nil {
		t.Errorf("open should create the database: %v", err)
	}

	for _, cmd := range []string{"status", "clean", "version"} {
		if err := run(ctx, []string{cmd}); err != nil {
			t.Errorf("%s failed: %v", cmd, err)
		}
	}
}

// TestRun_Usage tests argument errors.
func TestRun_Usage(t *testing.T) {
	t.Setenv("SQLITELIFE_CONFIG", "")
	t.Setenv("SQLITELIFE_DATABASE_DIR", t.TempDir())
	t.Setenv("SQLITELIFE_LOGGING_LEVEL", "error")

	for _, args := range [][]string{nil, {"open", "status"}, {"bogus"}} {
		if err := run(context.Background(), args); err == nil {
			t.Errorf("run(%q): expected error", args)
		}
	}
}
