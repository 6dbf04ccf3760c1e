// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDatabase is returned for a name that no Schema registered.
	ErrUnknownDatabase = errors.New("unknown database")

	// ErrClosed is returned by every lookup after Close.
	ErrClosed = errors.New("database manager closed")

	// ErrDeleteFailed marks a database file that exists but could not be
	// removed during Clean. It is fatal: the manager never reconnects a
	// database that failed this way.
	ErrDeleteFailed = errors.New("failed to delete database")
)

// CleanError is the fatal error returned when Clean cannot remove a
// database file. It matches both ErrDeleteFailed and the underlying
// filesystem error with errors.Is.
type CleanError struct {
	Name string
	Path string
	Err  error
}

func (e *CleanError) Error() string {
	return fmt.Sprintf("clean %s: %v: [%s]: %v", e.Name, ErrDeleteFailed, e.Path, e.Err)
}

func (e *CleanError) Unwrap() []error {
	return []error{ErrDeleteFailed, e.Err}
}
