// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package record binds an entity type to one table (or one read-only
// query) in one database registered with a sqlitelife.Manager.
//
// A Manager carries the entity's schema metadata as data. Entities only
// implement the small Record interface.
package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mdhender/sqlitelife"
	"github.com/mdhender/sqlitelife/events"
)

var (
	// ErrNotSupported is returned by write operations on query managers.
	ErrNotSupported = errors.New("not supported")

	// ErrNotFound is returned when no row matches a primary key.
	ErrNotFound = errors.New("record not found")
)

// Record is implemented by every entity a Manager handles.
type Record interface {
	// Validate reports whether the entity may be saved.
	Validate() error
	// PrimaryKeyValue returns the row id, or 0 for an unsaved entity.
	PrimaryKeyValue() int64
	// SetPrimaryKeyValue stores the id assigned on insert.
	SetPrimaryKeyValue(id int64)
}

// Source hands out connection handles by database name.
// *sqlitelife.Manager implements it.
type Source interface {
	Readable(ctx context.Context, name string) (sqlitelife.Reader, error)
	Writable(ctx context.Context, name string) (sqlitelife.Writer, error)
}

// Table is the static schema metadata of one physical table.
type Table struct {
	Database   string
	Name       string
	PrimaryKey string
	// Columns is the ordered set of column keys, primary key included.
	// Entity fields carry matching `db` tags.
	Columns   []string
	CreateSQL string
	DropSQL   string
}

// Manager provides the operations for one entity type.
type Manager[T Record] struct {
	source    Source
	bus       *events.Bus
	table     Table
	query     string
	newRecord func() T
}

// NewManager returns a manager for a physical table.
func NewManager[T Record](source Source, bus *events.Bus, table Table, newRecord func() T) *Manager[T] {
	return &Manager[T]{
		source:    source,
		bus:       bus,
		table:     table,
		newRecord: newRecord,
	}
}

// NewQueryManager returns a manager backed by a read-only query, such as a
// join across tables. It can read rows but never save or delete them.
func NewQueryManager[T Record](source Source, bus *events.Bus, database, query string, keys []string, newRecord func() T) *Manager[T] {
	return &Manager[T]{
		source:    source,
		bus:       bus,
		table:     Table{Database: database, Columns: keys},
		query:     query,
		newRecord: newRecord,
	}
}

// IsQuery reports whether the manager is backed by a query rather than a table.
func (m *Manager[T]) IsQuery() bool {
	return m.query != ""
}

// DatabaseName returns the name of the entity's home database.
func (m *Manager[T]) DatabaseName() string {
	return m.table.Database
}

// NewRecord returns an empty, default-initialized entity.
func (m *Manager[T]) NewRecord() T {
	return m.newRecord()
}

// AllKeys returns the ordered column keys.
func (m *Manager[T]) AllKeys() []string {
	keys := make([]string, len(m.table.Columns))
	copy(keys, m.table.Columns)
	return keys
}

// TableName returns the table name, or the query for a query manager.
func (m *Manager[T]) TableName() string {
	if m.IsQuery() {
		return m.query
	}
	return m.table.Name
}

// PrimaryKey returns the primary key column. Empty for query managers.
func (m *Manager[T]) PrimaryKey() string {
	return m.table.PrimaryKey
}

// CreateSQL returns the CREATE TABLE statement. Empty for query managers.
func (m *Manager[T]) CreateSQL() string {
	return m.table.CreateSQL
}

// DropSQL returns the DROP TABLE statement. Empty for query managers.
func (m *Manager[T]) DropSQL() string {
	return m.table.DropSQL
}

// ReadableDatabase returns a query handle for the home database.
func (m *Manager[T]) ReadableDatabase(ctx context.Context) (sqlitelife.Reader, error) {
	return m.ReadableDatabaseFor(ctx, m.DatabaseName())
}

// ReadableDatabaseFor returns a query handle for the named database.
func (m *Manager[T]) ReadableDatabaseFor(ctx context.Context, databaseName string) (sqlitelife.Reader, error) {
	return m.source.Readable(ctx, databaseName)
}

// WritableDatabase returns a read-write handle for the home database.
func (m *Manager[T]) WritableDatabase(ctx context.Context) (sqlitelife.Writer, error) {
	return m.WritableDatabaseFor(ctx, m.DatabaseName())
}

// WritableDatabaseFor returns a read-write handle for the named database.
func (m *Manager[T]) WritableDatabaseFor(ctx context.Context, databaseName string) (sqlitelife.Writer, error) {
	return m.source.Writable(ctx, databaseName)
}

// Bus returns the notification channel the manager posts to.
func (m *Manager[T]) Bus() *events.Bus {
	return m.bus
}

// from returns the FROM clause source: the table, or the query as a subselect.
func (m *Manager[T]) from() string {
	if m.IsQuery() {
		return "(" + m.query + ")"
	}
	return m.table.Name
}

func (m *Manager[T]) selectSQL() string {
	return "SELECT " + strings.Join(m.table.Columns, ", ") + " FROM " + m.from()
}

// FindByID returns the entity with the given primary key.
func (m *Manager[T]) FindByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if m.table.PrimaryKey == "" {
		return zero, fmt.Errorf("find %s by id: no primary key: %w", m.label(), ErrNotSupported)
	}

	r, err := m.ReadableDatabase(ctx)
	if err != nil {
		return zero, err
	}

	rec := m.newRecord()
	q := m.selectSQL() + " WHERE " + m.table.PrimaryKey + " = ?"
	if err := r.GetContext(ctx, rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("find %s %d: %w", m.label(), id, ErrNotFound)
		}
		return zero, fmt.Errorf("find %s %d: %w", m.label(), id, err)
	}
	return rec, nil
}

// FindAll returns every row, ordered by primary key when there is one.
func (m *Manager[T]) FindAll(ctx context.Context) ([]T, error) {
	return m.FindAllWhere(ctx, "")
}

// FindAllWhere returns the rows matching where, a SQL condition with ?
// placeholders. An empty where matches every row.
func (m *Manager[T]) FindAllWhere(ctx context.Context, where string, args ...any) ([]T, error) {
	r, err := m.ReadableDatabase(ctx)
	if err != nil {
		return nil, err
	}

	q := m.selectSQL()
	if where != "" {
		q += " WHERE " + where
	}
	if m.table.PrimaryKey != "" {
		q += " ORDER BY " + m.table.PrimaryKey
	}

	var rows []T
	if err := r.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("find %s: %w", m.label(), err)
	}
	return rows, nil
}

// Count returns the number of rows.
func (m *Manager[T]) Count(ctx context.Context) (int64, error) {
	r, err := m.ReadableDatabase(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+m.from()); err != nil {
		return 0, fmt.Errorf("count %s: %w", m.label(), err)
	}
	return n, nil
}

// Save inserts e when it has no primary key yet and updates it otherwise.
// Query managers always fail with ErrNotSupported.
func (m *Manager[T]) Save(ctx context.Context, databaseName string, e T) error {
	if m.IsQuery() {
		return fmt.Errorf("cannot save a view or query: %w", ErrNotSupported)
	}

	if err := e.Validate(); err != nil {
		return fmt.Errorf("save %s: %w", m.label(), err)
	}

	w, err := m.WritableDatabaseFor(ctx, databaseName)
	if err != nil {
		return err
	}

	if e.PrimaryKeyValue() == 0 {
		return m.insert(ctx, w, databaseName, e)
	}
	return m.update(ctx, w, databaseName, e)
}

// Delete removes e by primary key. Query managers always fail with
// ErrNotSupported.
func (m *Manager[T]) Delete(ctx context.Context, databaseName string, e T) error {
	if m.IsQuery() {
		return fmt.Errorf("cannot delete from a view or query: %w", ErrNotSupported)
	}

	id := e.PrimaryKeyValue()
	if id == 0 {
		return fmt.Errorf("delete %s: %w", m.label(), ErrNotFound)
	}

	w, err := m.WritableDatabaseFor(ctx, databaseName)
	if err != nil {
		return err
	}

	res, err := w.ExecContext(ctx, "DELETE FROM "+m.table.Name+" WHERE "+m.table.PrimaryKey+" = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", m.label(), id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete %s %d: %w", m.label(), id, ErrNotFound)
	}

	m.bus.Post(events.Event{Kind: events.Delete, Database: databaseName, Table: m.table.Name, ID: id})
	return nil
}

func (m *Manager[T]) insert(ctx context.Context, w sqlitelife.Writer, databaseName string, e T) error {
	cols := m.valueColumns()
	params := make([]string, len(cols))
	for i, c := range cols {
		params[i] = ":" + c
	}
	q := "INSERT INTO " + m.table.Name + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(params, ", ") + ")"

	res, err := w.NamedExecContext(ctx, q, e)
	if err != nil {
		return fmt.Errorf("insert %s: %w", m.label(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert %s: last insert id: %w", m.label(), err)
	}
	e.SetPrimaryKeyValue(id)

	m.bus.Post(events.Event{Kind: events.Insert, Database: databaseName, Table: m.table.Name, ID: id})
	return nil
}

func (m *Manager[T]) update(ctx context.Context, w sqlitelife.Writer, databaseName string, e T) error {
	cols := m.valueColumns()
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = :" + c
	}
	pk := m.table.PrimaryKey
	q := "UPDATE " + m.table.Name + " SET " + strings.Join(sets, ", ") + " WHERE " + pk + " = :" + pk

	res, err := w.NamedExecContext(ctx, q, e)
	if err != nil {
		return fmt.Errorf("update %s: %w", m.label(), err)
	}
	id := e.PrimaryKeyValue()
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update %s %d: %w", m.label(), id, ErrNotFound)
	}

	m.bus.Post(events.Event{Kind: events.Update, Database: databaseName, Table: m.table.Name, ID: id})
	return nil
}

// valueColumns returns the columns written on insert and update.
func (m *Manager[T]) valueColumns() []string {
	cols := make([]string, 0, len(m.table.Columns))
	for _, c := range m.table.Columns {
		if c != m.table.PrimaryKey {
			cols = append(cols, c)
		}
	}
	return cols
}

// label names the manager in error messages.
func (m *Manager[T]) label() string {
	if m.IsQuery() {
		return m.table.Database + " query"
	}
	return m.table.Database + "." + m.table.Name
}
