// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package sqlitelife manages the lifecycle of named, versioned SQLite
// database files.
//
// The package implements a lifecycle model where:
//   - Every database is registered up front as a Schema (name, version, tables)
//   - A database file is created on first open, in a single transaction
//   - The stored version is the engine's own PRAGMA user_version
//   - A version mismatch wipes and recreates the file unless the schema
//     carries a complete chain of migration steps
//   - A file that cannot be deleted is a fatal condition, never retried
//
// # Basic Usage
//
//	mgr, err := sqlitelife.New(sqlitelife.Config{
//	    Dir: "/var/lib/myapp",
//	}, sqlitelife.Schema{
//	    Name:    "main",
//	    Version: 1,
//	    Tables: []sqlitelife.Table{
//	        {Name: "kind", CreateSQL: createKind, Enum: true},
//	        {Name: "item", CreateSQL: createItem},
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer mgr.Close()
//
//	w, err := mgr.Writable(ctx, "main")
//
// # Driver Support
//
// This package supports two SQLite drivers via build tags:
//   - modernc.org/sqlite (default, pure Go, no CGO)
//   - github.com/mattn/go-sqlite3 (CGO, use -tags mattn)
//
// The driver matching the build is imported by this package.
//
// # Handles
//
// Exactly one handle exists per database name. Readable and Writable return
// the same connection pool typed as Reader or Writer; SQLite serializes
// writers and this package adds no locking of its own. Clean closes and
// deletes the file under any outstanding handle, so it must only run during
// start-up, before handles are shared.
package sqlitelife
