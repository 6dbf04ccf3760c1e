// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"fmt"
	"regexp"
)

// Table is the static definition of one table in a database.
type Table struct {
	// Name is the table name as it appears in sqlite_master.
	Name string

	// CreateSQL is the CREATE TABLE statement. It is not validated here,
	// only executed.
	CreateSQL string

	// Enum marks a lookup table. Enum tables are created before regular
	// tables.
	Enum bool

	// Seed holds statements run right after CreateSQL, typically the
	// INSERTs that populate an enum table.
	Seed []string
}

// Migration upgrades a database from Version-1 to Version.
type Migration struct {
	Version    int
	Statements []string
}

// Schema describes one named database at its current version.
//
// Migrations may be empty. When it is, or when the steps do not form a
// complete chain from the stored version to Version, an upgrade wipes the
// file and creates it from scratch.
type Schema struct {
	Name       string
	Version    int
	Tables     []Table
	Migrations []Migration
}

// reDatabaseName keeps database names usable as plain file names.
var reDatabaseName = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// validate checks that a schema can be registered.
func (s Schema) validate() error {
	if !reDatabaseName.MatchString(s.Name) {
		return fmt.Errorf("invalid database name %q", s.Name)
	}
	if s.Version < 1 {
		return fmt.Errorf("%s: version must be positive, got %d", s.Name, s.Version)
	}

	seenTables := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		if t.Name == "" {
			return fmt.Errorf("%s: table with empty name", s.Name)
		}
		if t.CreateSQL == "" {
			return fmt.Errorf("%s: table %q has no create statement", s.Name, t.Name)
		}
		if seenTables[t.Name] {
			return fmt.Errorf("%s: duplicate table %q", s.Name, t.Name)
		}
		seenTables[t.Name] = true
	}

	seenSteps := make(map[int]bool, len(s.Migrations))
	for _, m := range s.Migrations {
		if m.Version < 2 || m.Version > s.Version {
			return fmt.Errorf("%s: migration version %d outside 2..%d", s.Name, m.Version, s.Version)
		}
		if seenSteps[m.Version] {
			return fmt.Errorf("%s: duplicate migration version %d", s.Name, m.Version)
		}
		seenSteps[m.Version] = true
	}

	return nil
}

// creationOrder returns the tables with enum tables first. Registration
// order is kept within each group.
func (s Schema) creationOrder() []Table {
	ordered := make([]Table, 0, len(s.Tables))
	for _, t := range s.Tables {
		if t.Enum {
			ordered = append(ordered, t)
		}
	}
	for _, t := range s.Tables {
		if !t.Enum {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

// migrationChain returns the steps that take a database from version from
// to s.Version. It reports false unless every intermediate step exists.
func (s Schema) migrationChain(from int) ([]Migration, bool) {
	if from < 1 || from >= s.Version {
		return nil, false
	}

	byVersion := make(map[int]Migration, len(s.Migrations))
	for _, m := range s.Migrations {
		byVersion[m.Version] = m
	}

	chain := make([]Migration, 0, s.Version-from)
	for v := from + 1; v <= s.Version; v++ {
		m, ok := byVersion[v]
		if !ok {
			return nil, false
		}
		chain = append(chain, m)
	}
	return chain, true
}

// TableNames returns the names of the tables the schema declares, in
// declaration order.
func (s Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}
