// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
)

// Version returns the module version. Build carries the VCS commit when
// the binary was built from a checkout.
func Version() semver.Version {
	return version
}
