// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"fmt"
	"os"
)

// sidecarSuffixes lists the files SQLite keeps next to a database: the
// WAL pair and the rollback journal.
var sidecarSuffixes = []string{"-wal", "-shm", "-journal"}

// deleteFiles removes a database file and its sidecar files. Sidecars
// are removed even when the database file itself is already gone.
// Returns nil if none of them exist.
func (m *Manager) deleteFiles(path string) error {
	var firstErr error
	for _, suffix := range append([]string{""}, sidecarSuffixes...) {
		name := path + suffix
		if !fileExists(name) {
			continue
		}
		if !isRegularFile(name) {
			err := fmt.Errorf("%s: not a regular file", name)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := m.remove(name); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		return firstErr
	}

	if fileExists(path) {
		return fmt.Errorf("%s: still exists after delete", path)
	}

	return nil
}

// File system helpers

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() || info.IsDir()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
