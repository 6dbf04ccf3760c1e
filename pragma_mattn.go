// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build mattn

package sqlitelife

import (
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// driverName is the database/sql name registered by github.com/mattn/go-sqlite3.
const driverName = "sqlite3"

// pragma represents a SQLite pragma setting.
type pragma struct {
	name  string
	value string
}

// persistentPragmas returns the pragmas for a durable database file.
func persistentPragmas(cfg Config) []pragma {
	return []pragma{
		{name: "_foreign_keys", value: "1"},
		{name: "_busy_timeout", value: fmt.Sprint(cfg.BusyTimeout.Milliseconds())},
		{name: "_journal_mode", value: "WAL"},
		{name: "_synchronous", value: "NORMAL"},
	}
}

// buildDSN constructs a DSN for github.com/mattn/go-sqlite3.
// mattn uses the syntax: file:path?_foreign_keys=1&_journal_mode=WAL
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
		fmt.Fprintf(&sb, "%s=%s", p.name, p.value)
	}

	return sb.String()
}
