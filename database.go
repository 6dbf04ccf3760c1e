// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Reader is a connection handle scoped for queries.
type Reader interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Writer is a connection handle scoped for reads, writes and transactions.
type Writer interface {
	Reader
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// Database is the handle for one open database file.
//
// The handle survives Clean: the manager swaps the underlying pool in place.
// Readers and Writers taken from it before a Clean are closed with the old
// pool.
type Database struct {
	name    string
	path    string
	version int
	db      *sqlx.DB
}

// Name returns the registered database name.
func (d *Database) Name() string {
	return d.name
}

// Path returns the filesystem path to the database file.
func (d *Database) Path() string {
	return d.path
}

// Version returns the schema version stored in the file when it was last
// opened, created or upgraded.
func (d *Database) Version() int {
	return d.version
}

// DB returns the underlying connection pool. It is nil once the handle is
// closed.
func (d *Database) DB() *sqlx.DB {
	return d.db
}

// close closes the pool, if any.
func (d *Database) close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	if err != nil {
		return fmt.Errorf("closing %s: %w", d.name, err)
	}
	return nil
}

// openPool opens a connection pool for the database file at path.
// The file is created if it does not exist.
func openPool(ctx context.Context, cfg Config, path string) (*sqlx.DB, error) {
	dsn := buildDSN(path, persistentPragmas(cfg))
	cfg.Logger.Debug("opening database", "dsn", dsn)

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// storedVersion returns the schema version kept by the engine in the file
// header. Zero means the tables were never created.
func storedVersion(ctx context.Context, r Reader) (int, error) {
	var v int
	if err := r.GetContext(ctx, &v, `PRAGMA user_version`); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return v, nil
}

// Tables returns the names of the user tables in the database, sorted.
// SQLite's internal tables are excluded.
func Tables(ctx context.Context, r Reader) ([]string, error) {
	var names []string
	err := r.SelectContext(ctx, &names, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}
