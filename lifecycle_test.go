// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"syscall"
	"testing"
)

func lockedSchema() Schema {
	return Schema{
		Name:    "main",
		Version: 2,
		Tables: []Table{
			{Name: "item", CreateSQL: `CREATE TABLE item (id INTEGER PRIMARY KEY, name TEXT)`},
		},
	}
}

// undeletable makes every removal fail the way a file held by another
// process does on platforms that lock open files.
func undeletable(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: syscall.EBUSY}
}

// TestClean_DeleteFailure tests that an undeletable file is fatal and not reconnected.
func TestClean_DeleteFailure(t *testing.T) {
	ctx := context.Background()
	mgr, err := New(Config{Dir: t.TempDir()}, lockedSchema())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer mgr.Close()

	d, err := mgr.Database(ctx, "main")
	if err != nil {
		t.Fatalf("Database failed: %v", err)
	}

	attempts := 0
	mgr.remove = func(name string) error {
		attempts++
		return undeletable(name)
	}

	err = mgr.Clean(ctx, d)

	var cerr *CleanError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CleanError, got %v", err)
	}
	if cerr.Path != d.Path() || cerr.Name != "main" {
		t.Errorf("unexpected CleanError %+v", cerr)
	}
	if !errors.Is(err, ErrDeleteFailed) {
		t.Error("expected errors.Is(err, ErrDeleteFailed)")
	}
	if !errors.Is(err, syscall.EBUSY) {
		t.Error("expected the filesystem error to be wrapped")
	}

	if d.DB() != nil {
		t.Error("handle must stay closed after a failed delete")
	}
	if _, err := os.Stat(d.Path()); err != nil {
		t.Errorf("database file should still exist: %v", err)
	}
	if attempts == 0 {
		t.Error("expected a removal attempt")
	}

	// The failure sticks for the life of the manager.
	if _, err := mgr.Database(ctx, "main"); !errors.As(err, &cerr) {
		t.Errorf("Database after failure: expected *CleanError, got %v", err)
	}
	if _, err := mgr.Readable(ctx, "main"); !errors.Is(err, ErrDeleteFailed) {
		t.Errorf("Readable after failure: expected ErrDeleteFailed, got %v", err)
	}
	if _, err := mgr.Status(ctx, "main"); !errors.Is(err, ErrDeleteFailed) {
		t.Errorf("Status after failure: expected ErrDeleteFailed, got %v", err)
	}
}

// TestUpgrade_DeleteFailure tests the same failure reached through the open path.
func TestUpgrade_DeleteFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	v1 := lockedSchema()
	v1.Version = 1
	mgr, err := New(Config{Dir: dir}, v1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := mgr.Database(ctx, "main"); err != nil {
		t.Fatalf("Database failed: %v", err)
	}
	mgr.Close()

	mgr, err = New(Config{Dir: dir}, lockedSchema())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer mgr.Close()
	mgr.remove = undeletable

	if _, err := mgr.Database(ctx, "main"); !errors.Is(err, ErrDeleteFailed) {
		t.Fatalf("expected ErrDeleteFailed, got %v", err)
	}
	if len(mgr.open) != 0 {
		t.Error("failed database must not be registered as open")
	}
}

// TestDeleteFiles tests removal of the database file and its sidecars.
func TestDeleteFiles(t *testing.T) {
	mgr, err := New(Config{Dir: t.TempDir()}, lockedSchema())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer mgr.Close()

	path := mgr.cfg.pathFor("main")
	for _, name := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.WriteFile(name, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	if err := mgr.deleteFiles(path); err != nil {
		t.Fatalf("deleteFiles failed: %v", err)
	}
	for _, name := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if _, err := os.Stat(name); !os.IsNotExist(err) {
			t.Errorf("%s should be gone", name)
		}
	}

	// Missing files are not an error.
	if err := mgr.deleteFiles(path); err != nil {
		t.Errorf("deleteFiles on missing file: %v", err)
	}
}

// TestDeleteFiles_OrphanSidecars tests that sidecars without a database file are removed.
func TestDeleteFiles_OrphanSidecars(t *testing.T) {
	mgr, err := New(Config{Dir: t.TempDir()}, lockedSchema())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer mgr.Close()

	path := mgr.cfg.pathFor("main")
	sidecars := []string{path + "-wal", path + "-shm", path + "-journal"}
	for _, name := range sidecars {
		if err := os.WriteFile(name, []byte("stale"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	if err := mgr.deleteFiles(path); err != nil {
		t.Fatalf("deleteFiles failed: %v", err)
	}
	for _, name := range sidecars {
		if _, err := os.Stat(name); !os.IsNotExist(err) {
			t.Errorf("%s should be gone", name)
		}
	}
}

// TestDeleteFiles_NotRegular tests that a directory in place of a sidecar is reported.
func TestDeleteFiles_NotRegular(t *testing.T) {
	mgr, err := New(Config{Dir: t.TempDir()}, lockedSchema())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer mgr.Close()

	path := mgr.cfg.pathFor("main")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path+"-wal", 0700); err != nil {
		t.Fatal(err)
	}

	if err := mgr.deleteFiles(path); err == nil {
		t.Error("expected error for non-regular sidecar")
	}
}

func TestSchema_CreationOrder(t *testing.T) {
	s := Schema{Tables: []Table{
		{Name: "a"},
		{Name: "b", Enum: true},
		{Name: "c"},
		{Name: "d", Enum: true},
	}}

	var got []string
	for _, tbl := range s.creationOrder() {
		got = append(got, tbl.Name)
	}
	if want := []string{"b", "d", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("creationOrder() = %v, want %v", got, want)
	}
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(s.TableNames(), want) {
		t.Errorf("TableNames() = %v, want %v", s.TableNames(), want)
	}
}

func TestSchema_MigrationChain(t *testing.T) {
	s := Schema{
		Name:    "main",
		Version: 4,
		Migrations: []Migration{
			{Version: 4},
			{Version: 2},
			{Version: 3},
		},
	}

	tests := []struct {
		from  int
		want  []int
		found bool
	}{
		{from: 1, want: []int{2, 3, 4}, found: true},
		{from: 3, want: []int{4}, found: true},
		{from: 0, found: false},
		{from: 4, found: false},
		{from: 5, found: false},
	}

	for _, tt := range tests {
		chain, ok := s.migrationChain(tt.from)
		if ok != tt.found {
			t.Errorf("migrationChain(%d) found = %v, want %v", tt.from, ok, tt.found)
			continue
		}
		var got []int
		for _, m := range chain {
			got = append(got, m.Version)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("migrationChain(%d) = %v, want %v", tt.from, got, tt.want)
		}
	}

	gap := Schema{Name: "main", Version: 3, Migrations: []Migration{{Version: 3}}}
	if _, ok := gap.migrationChain(1); ok {
		t.Error("expected no chain across a gap")
	}
}

func TestBuildDSN(t *testing.T) {
	cfg := Config{}.defaults()
	dsn := buildDSN("/tmp/main.db", persistentPragmas(cfg))

	if want := "file:/tmp/main.db?"; !strings.HasPrefix(dsn, want) {
		t.Errorf("dsn %q should start with %q", dsn, want)
	}
	if !strings.Contains(dsn, "5000") {
		t.Errorf("dsn %q should carry the busy timeout in milliseconds", dsn)
	}
}
