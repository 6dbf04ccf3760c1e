// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package domain holds the application's entities and the schema of the
// main database.
package domain

import (
	"github.com/mdhender/sqlitelife"
	"github.com/mdhender/sqlitelife/events"
	"github.com/mdhender/sqlitelife/record"
)

const (
	// MainDatabaseName is the file name (without extension) of the main database.
	MainDatabaseName = "main"

	// DatabaseVersion is the current schema version of the main database.
	// Changing it wipes existing files on next open.
	DatabaseVersion = 1
)

// MainSchema returns the schema of the main database. It has no migration
// steps, so any version drift recreates the file.
func MainSchema() sqlitelife.Schema {
	return sqlitelife.Schema{
		Name:    MainDatabaseName,
		Version: DatabaseVersion,
		Tables: []sqlitelife.Table{
			// Enum tables
			{Name: IndividualTypeTable, CreateSQL: IndividualTypeCreateTable, Enum: true, Seed: individualTypeSeed},

			// Regular tables
			{Name: IndividualTable, CreateSQL: IndividualCreateTable},
		},
	}
}

// Schemas returns every database schema of the application.
func Schemas() []sqlitelife.Schema {
	return []sqlitelife.Schema{MainSchema()}
}

// Managers groups the record managers of the main database.
type Managers struct {
	IndividualTypes    *record.Manager[*IndividualType]
	Individuals        *record.Manager[*Individual]
	CrossDatabaseQuery *record.Manager[*CrossDatabaseQueryRow]
}

// NewManagers wires every record manager to source and bus.
func NewManagers(source record.Source, bus *events.Bus) *Managers {
	return &Managers{
		IndividualTypes:    NewIndividualTypeManager(source, bus),
		Individuals:        NewIndividualManager(source, bus),
		CrossDatabaseQuery: NewCrossDatabaseQueryManager(source, bus),
	}
}
