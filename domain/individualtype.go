// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package domain

import (
	"fmt"

	"github.com/mdhender/sqlitelife/events"
	"github.com/mdhender/sqlitelife/record"
)

// Individual type values. The enum table is seeded with these rows.
const (
	IndividualTypeHead   int64 = 1
	IndividualTypeSpouse int64 = 2
	IndividualTypeChild  int64 = 3
)

const (
	IndividualTypeTable = "individual_type"

	IndividualTypeCreateTable = `CREATE TABLE individual_type (
	_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
)`

	IndividualTypeDropTable = `DROP TABLE IF EXISTS individual_type`
)

// IndividualTypeKeys are the columns of individual_type.
var IndividualTypeKeys = []string{"_id", "name"}

// individualTypeSeed populates the enum table.
var individualTypeSeed = []string{
	fmt.Sprintf(`INSERT INTO individual_type (_id, name) VALUES (%d, 'HEAD')`, IndividualTypeHead),
	fmt.Sprintf(`INSERT INTO individual_type (_id, name) VALUES (%d, 'SPOUSE')`, IndividualTypeSpouse),
	fmt.Sprintf(`INSERT INTO individual_type (_id, name) VALUES (%d, 'CHILD')`, IndividualTypeChild),
}

// IndividualType is a row of the individual_type lookup table.
type IndividualType struct {
	ID   int64  `db:"_id"`
	Name string `db:"name"`
}

func (t *IndividualType) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("individual type: name is required")
	}
	return nil
}

func (t *IndividualType) PrimaryKeyValue() int64 { return t.ID }

func (t *IndividualType) SetPrimaryKeyValue(id int64) { t.ID = id }

// NewIndividualTypeManager returns the record manager for individual_type.
func NewIndividualTypeManager(source record.Source, bus *events.Bus) *record.Manager[*IndividualType] {
	return record.NewManager(source, bus, record.Table{
		Database:   MainDatabaseName,
		Name:       IndividualTypeTable,
		PrimaryKey: "_id",
		Columns:    IndividualTypeKeys,
		CreateSQL:  IndividualTypeCreateTable,
		DropSQL:    IndividualTypeDropTable,
	}, func() *IndividualType { return &IndividualType{} })
}
