// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build !mattn

package sqlitelife

import (
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

// pragma represents a SQLite pragma setting.
type pragma struct {
	name  string
	value string
}

// persistentPragmas returns the pragmas for a durable database file.
func persistentPragmas(cfg Config) []pragma {
	return []pragma{
		{name: "foreign_keys", value: "ON"},
		{name: "busy_timeout", value: fmt.Sprint(cfg.BusyTimeout.Milliseconds())},
		{name: "journal_mode", value: "WAL"},
		{name: "synchronous", value: "NORMAL"},
		{name: "temp_store", value: "FILE"},
		{name: "locking_mode", value: "NORMAL"},
	}
}

// buildDSN constructs a DSN for modernc.org/sqlite.
// modernc uses the syntax: file:path?_pragma=name(value)&_pragma=name2(value2)
func buildDSN(path string, pragmas []pragma) string {
	var sb strings.Builder

	sb.WriteString("file:")
	sb.WriteString(path)

	for i, p := range pragmas {
		if i > 0 {
			sb.WriteString("&")
		} else {
			sb.WriteString("?")
		}
		fmt.Fprintf(&sb, "_pragma=%s(%s)", p.name, p.value)
	}

	return sb.String()
}
