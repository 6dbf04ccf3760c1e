// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package domain

import (
	"github.com/mdhender/sqlitelife/events"
	"github.com/mdhender/sqlitelife/record"
)

// CrossDatabaseQuery joins individuals with their type names.
const CrossDatabaseQuery = `SELECT i._id AS _id, i.first_name || ' ' || i.last_name AS name, t.name AS type
FROM individual i
JOIN individual_type t ON t._id = i.individual_type_id`

// CrossDatabaseQueryKeys are the columns the query produces.
var CrossDatabaseQueryKeys = []string{"_id", "name", "type"}

// CrossDatabaseQueryRow is one row of CrossDatabaseQuery.
type CrossDatabaseQueryRow struct {
	ID   int64  `db:"_id"`
	Name string `db:"name"`
	Type string `db:"type"`
}

func (r *CrossDatabaseQueryRow) Validate() error { return nil }

func (r *CrossDatabaseQueryRow) PrimaryKeyValue() int64 { return r.ID }

func (r *CrossDatabaseQueryRow) SetPrimaryKeyValue(id int64) { r.ID = id }

// NewCrossDatabaseQueryManager returns the read-only manager for
// CrossDatabaseQuery. Save and Delete always fail with
// record.ErrNotSupported.
func NewCrossDatabaseQueryManager(source record.Source, bus *events.Bus) *record.Manager[*CrossDatabaseQueryRow] {
	return record.NewQueryManager(source, bus, MainDatabaseName, CrossDatabaseQuery, CrossDatabaseQueryKeys,
		func() *CrossDatabaseQueryRow { return &CrossDatabaseQueryRow{} })
}
