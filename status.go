// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"context"
	"fmt"
)

// DatabaseStatus describes the on-disk state of one database.
type DatabaseStatus struct {
	Name           string
	Path           string
	Exists         bool
	Open           bool
	StoredVersion  int
	CurrentVersion int
	Tables         []string
}

// NeedsCreate reports whether opening the database will create its tables.
func (s *DatabaseStatus) NeedsCreate() bool {
	return !s.Exists || s.StoredVersion == 0
}

// NeedsUpgrade reports whether opening the database will take the upgrade
// path.
func (s *DatabaseStatus) NeedsUpgrade() bool {
	return s.Exists && s.StoredVersion != 0 && s.StoredVersion != s.CurrentVersion
}

// Status returns the current state of a database without creating or
// upgrading it. A missing file is reported, not created.
func (m *Manager) Status(ctx context.Context, name string) (*DatabaseStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if err, ok := m.failed[name]; ok {
		return nil, err
	}
	schema, ok := m.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownDatabase)
	}

	status := &DatabaseStatus{
		Name:           name,
		Path:           m.cfg.pathFor(name),
		CurrentVersion: schema.Version,
	}

	var r Reader
	if d, ok := m.open[name]; ok {
		status.Open = true
		r = d.db
	} else {
		if !fileExists(status.Path) {
			return status, nil
		}
		db, err := openPool(ctx, m.cfg, status.Path)
		if err != nil {
			return nil, fmt.Errorf("status %s: %w", name, err)
		}
		defer db.Close()
		r = db
	}
	status.Exists = true

	version, err := storedVersion(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("status %s: %w", name, err)
	}
	status.StoredVersion = version

	tables, err := Tables(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("status %s: %w", name, err)
	}
	status.Tables = tables

	return status, nil
}
