// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/mdhender/sqlitelife/events"
)

// Manager owns the create, upgrade and clean decisions for every
// registered database. It is safe for concurrent use, except that Clean
// must not race with users of the handle being cleaned.
type Manager struct {
	cfg     Config
	schemas map[string]Schema

	mu     sync.Mutex
	open   map[string]*Database
	failed map[string]error
	closed bool

	// queued holds lifecycle events raised under mu. They are posted by
	// unlock so handlers may call back into the manager.
	queued []events.Event

	// remove deletes one file; os.Remove outside of tests.
	remove func(name string) error
}

// New returns a manager for the given schemas. No file is opened until a
// database is first requested.
func New(cfg Config, schemas ...Schema) (*Manager, error) {
	cfg = cfg.defaults()

	if err := cfg.prepareDir(); err != nil {
		return nil, err
	}

	registry := make(map[string]Schema, len(schemas))
	for _, s := range schemas {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("register schema: %w", err)
		}
		if _, ok := registry[s.Name]; ok {
			return nil, fmt.Errorf("register schema: duplicate database %q", s.Name)
		}
		registry[s.Name] = s
	}

	return &Manager{
		cfg:     cfg,
		schemas: registry,
		open:    make(map[string]*Database),
		failed:  make(map[string]error),
		remove:  os.Remove,
	}, nil
}

// Schema returns the registered schema for name.
func (m *Manager) Schema(name string) (Schema, bool) {
	s, ok := m.schemas[name]
	return s, ok
}

// Path returns the file path used for name, whether or not it exists.
func (m *Manager) Path(name string) (string, error) {
	if _, ok := m.schemas[name]; !ok {
		return "", fmt.Errorf("%s: %w", name, ErrUnknownDatabase)
	}
	return m.cfg.pathFor(name), nil
}

// Database returns the handle for name, opening the file and bringing it
// to the current schema version on first use.
func (m *Manager) Database(ctx context.Context, name string) (*Database, error) {
	m.mu.Lock()
	defer m.unlock()
	return m.database(ctx, name)
}

// Readable returns a connection handle for queries against name.
func (m *Manager) Readable(ctx context.Context, name string) (Reader, error) {
	d, err := m.Database(ctx, name)
	if err != nil {
		return nil, err
	}
	return d.db, nil
}

// Writable returns a connection handle for reads and writes against name.
func (m *Manager) Writable(ctx context.Context, name string) (Writer, error) {
	d, err := m.Database(ctx, name)
	if err != nil {
		return nil, err
	}
	return d.db, nil
}

// Close closes every open database. Lookups after Close return ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	for name, d := range m.open {
		m.cfg.Logger.Debug("closing database", "name", name)
		if err := d.close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.open = make(map[string]*Database)
	return errors.Join(errs...)
}

// database returns the open handle for name or connects it.
// The caller must hold m.mu.
func (m *Manager) database(ctx context.Context, name string) (*Database, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if err, ok := m.failed[name]; ok {
		return nil, err
	}
	if d, ok := m.open[name]; ok {
		return d, nil
	}

	schema, ok := m.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownDatabase)
	}

	d := &Database{name: schema.Name, path: m.cfg.pathFor(schema.Name)}
	if err := m.connect(ctx, d, true); err != nil {
		return nil, err
	}
	m.open[name] = d
	return d, nil
}

// connect opens the file behind d and brings it to the current version.
// A file with no stored version goes through the create path. A file at a
// different version goes through the upgrade path only when upgrade is set;
// Clean reconnects with upgrade unset so it never recurses.
// The caller must hold m.mu.
func (m *Manager) connect(ctx context.Context, d *Database, upgrade bool) error {
	schema := m.schemas[d.name]

	ctx, cancel := context.WithTimeout(ctx, m.cfg.OpenTimeout)
	defer cancel()

	m.cfg.Logger.Info("connecting database", "name", d.name, "path", d.path)

	db, err := openPool(ctx, m.cfg, d.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.name, err)
	}
	d.db = db

	// Ensure cleanup on error
	success := false
	defer func() {
		if !success {
			d.close()
		}
	}()

	version, err := storedVersion(ctx, d.db)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.name, err)
	}
	d.version = version

	switch {
	case version == 0:
		if err := m.createTables(ctx, d); err != nil {
			return err
		}
	case version != schema.Version && upgrade:
		if err := m.upgrade(ctx, d, version, schema.Version); err != nil {
			return err
		}
	}

	success = true
	return nil
}

// post queues a lifecycle notification. The caller must hold m.mu.
func (m *Manager) post(kind events.Kind, name string) {
	m.queued = append(m.queued, events.Event{Kind: kind, Database: name})
}

// unlock releases m.mu, then delivers the events queued while it was held.
func (m *Manager) unlock() {
	queued := m.queued
	m.queued = nil
	m.mu.Unlock()

	for _, e := range queued {
		m.cfg.Bus.Post(e)
	}
}
