// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlitelife

import (
	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 3,
		Patch: 0,
		Build: semver.Commit(),
	}
)

// Version returns the module version, with the build commit when known.
func Version() semver.Version {
	return version
}
