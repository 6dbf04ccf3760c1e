// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mdhender/sqlitelife/events"
)

// CreateTables creates every table of the database's schema in a single
// transaction and records the schema version. Enum tables are created
// first. If any statement fails, nothing is committed and the stored
// version stays zero.
func (m *Manager) CreateTables(ctx context.Context, d *Database) error {
	m.mu.Lock()
	defer m.unlock()
	if m.closed {
		return ErrClosed
	}
	return m.createTables(ctx, d)
}

// Upgrade reconciles a database stored at oldVersion with its schema.
// An oldVersion equal to the current version is a no-op. Otherwise the
// registered migration steps are applied when they form a complete chain,
// and the database is cleaned when they do not.
func (m *Manager) Upgrade(ctx context.Context, d *Database, oldVersion, newVersion int) error {
	m.mu.Lock()
	defer m.unlock()
	if m.closed {
		return ErrClosed
	}
	return m.upgrade(ctx, d, oldVersion, newVersion)
}

// Clean closes the database, deletes its file and reconnects, which
// creates the file afresh at the current version.
//
// A file that exists but cannot be deleted yields a *CleanError. That
// error is fatal: the database is not reconnected, and every later lookup
// of the same name returns the same error.
func (m *Manager) Clean(ctx context.Context, d *Database) error {
	m.mu.Lock()
	defer m.unlock()
	if m.closed {
		return ErrClosed
	}
	return m.clean(ctx, d)
}

// createTables is CreateTables without the lock.
func (m *Manager) createTables(ctx context.Context, d *Database) error {
	schema, ok := m.schemas[d.name]
	if !ok {
		return fmt.Errorf("%s: %w", d.name, ErrUnknownDatabase)
	}
	if d.db == nil {
		return fmt.Errorf("create %s: database is not open", d.name)
	}

	m.cfg.Logger.Info("creating database", "name", d.name, "version", schema.Version)

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create %s: %w", d.name, err)
	}
	defer tx.Rollback()

	for _, t := range schema.creationOrder() {
		m.cfg.Logger.Debug("creating table", "name", d.name, "table", t.Name, "enum", t.Enum)
		if _, err := tx.ExecContext(ctx, t.CreateSQL); err != nil {
			return fmt.Errorf("create %s: table %s: %w", d.name, t.Name, err)
		}
		for i, stmt := range t.Seed {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create %s: seed %s[%d]: %w", d.name, t.Name, i, err)
			}
		}
	}

	if err := setVersion(ctx, tx, schema.Version); err != nil {
		return fmt.Errorf("create %s: %w", d.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create %s: commit: %w", d.name, err)
	}

	d.version = schema.Version
	m.post(events.Created, d.name)
	return nil
}

// upgrade is Upgrade without the lock.
func (m *Manager) upgrade(ctx context.Context, d *Database, oldVersion, newVersion int) error {
	schema, ok := m.schemas[d.name]
	if !ok {
		return fmt.Errorf("%s: %w", d.name, ErrUnknownDatabase)
	}

	m.cfg.Logger.Info("upgrading database", "name", d.name, "from", oldVersion, "to", newVersion)

	if oldVersion == schema.Version {
		return nil
	}

	if chain, ok := schema.migrationChain(oldVersion); ok {
		if err := m.migrate(ctx, d, chain, schema.Version); err != nil {
			return err
		}
		m.post(events.Upgraded, d.name)
		return nil
	}

	// Wipe the database if the version is different and no steps reach it.
	return m.clean(ctx, d)
}

// migrate applies the migration steps in one transaction.
func (m *Manager) migrate(ctx context.Context, d *Database, chain []Migration, target int) error {
	if d.db == nil {
		return fmt.Errorf("migrate %s: database is not open", d.name)
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", d.name, err)
	}
	defer tx.Rollback()

	for _, step := range chain {
		m.cfg.Logger.Debug("applying migration", "name", d.name, "version", step.Version)
		for i, stmt := range step.Statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate %s: version %d[%d]: %w", d.name, step.Version, i, err)
			}
		}
	}

	if err := setVersion(ctx, tx, target); err != nil {
		return fmt.Errorf("migrate %s: %w", d.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate %s: commit: %w", d.name, err)
	}

	d.version = target
	return nil
}

// clean is Clean without the lock.
func (m *Manager) clean(ctx context.Context, d *Database) error {
	m.cfg.Logger.Info("cleaning database", "name", d.name)

	if err := d.close(); err != nil {
		m.cfg.Logger.Warn("close before clean", "name", d.name, "error", err)
	}

	m.cfg.Logger.Info("deleting database", "path", d.path)
	if err := m.deleteFiles(d.path); err != nil {
		cerr := &CleanError{Name: d.name, Path: d.path, Err: err}
		m.cfg.Logger.Error("FAILED to delete database", "name", d.name, "path", d.path, "error", err)
		m.failed[d.name] = cerr
		delete(m.open, d.name)
		return cerr
	}

	// do not upgrade here, the fresh file goes through the create path
	if err := m.connect(ctx, d, false); err != nil {
		delete(m.open, d.name)
		return fmt.Errorf("clean %s: reconnect: %w", d.name, err)
	}

	m.post(events.Cleaned, d.name)
	return nil
}

// setVersion records version in the file header. PRAGMA arguments cannot
// be bound, so the integer is formatted into the statement.
func setVersion(ctx context.Context, tx *sqlx.Tx, version int) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
