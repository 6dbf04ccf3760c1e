// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mdhender/sqlitelife/events"
	"github.com/mdhender/sqlitelife/record"
)

const (
	IndividualTable = "individual"

	IndividualCreateTable = `CREATE TABLE individual (
	_id INTEGER PRIMARY KEY AUTOINCREMENT,
	individual_type_id INTEGER NOT NULL REFERENCES individual_type (_id),
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	birth_date TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	available INTEGER NOT NULL DEFAULT 0,
	amount REAL NOT NULL DEFAULT 0,
	last_modified INTEGER NOT NULL DEFAULT 0
)`

	IndividualDropTable = `DROP TABLE IF EXISTS individual`
)

// IndividualKeys are the columns of individual.
var IndividualKeys = []string{
	"_id",
	"individual_type_id",
	"first_name",
	"last_name",
	"birth_date",
	"phone",
	"email",
	"available",
	"amount",
	"last_modified",
}

// Individual is a person in the main database.
type Individual struct {
	ID               int64   `db:"_id"`
	IndividualTypeID int64   `db:"individual_type_id"`
	FirstName        string  `db:"first_name"`
	LastName         string  `db:"last_name"`
	BirthDate        string  `db:"birth_date"` // YYYY-MM-DD, empty when unknown
	Phone            string  `db:"phone"`
	Email            string  `db:"email"`
	Available        bool    `db:"available"`
	Amount           float64 `db:"amount"`
	LastModified     int64   `db:"last_modified"` // unix milliseconds
}

// NewIndividual returns an individual of the default type.
func NewIndividual() *Individual {
	return &Individual{IndividualTypeID: IndividualTypeHead}
}

func (i *Individual) Validate() error {
	var errs []error
	if strings.TrimSpace(i.FirstName) == "" {
		errs = append(errs, errors.New("first name is required"))
	}
	if strings.TrimSpace(i.LastName) == "" {
		errs = append(errs, errors.New("last name is required"))
	}
	if i.IndividualTypeID < 1 {
		errs = append(errs, errors.New("individual type is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("individual: %w", err)
	}
	return nil
}

func (i *Individual) PrimaryKeyValue() int64 { return i.ID }

func (i *Individual) SetPrimaryKeyValue(id int64) { i.ID = id }

// FullName returns "first last".
func (i *Individual) FullName() string {
	return i.FirstName + " " + i.LastName
}

// NewIndividualManager returns the record manager for individual.
func NewIndividualManager(source record.Source, bus *events.Bus) *record.Manager[*Individual] {
	return record.NewManager(source, bus, record.Table{
		Database:   MainDatabaseName,
		Name:       IndividualTable,
		PrimaryKey: "_id",
		Columns:    IndividualKeys,
		CreateSQL:  IndividualCreateTable,
		DropSQL:    IndividualDropTable,
	}, NewIndividual)
}
