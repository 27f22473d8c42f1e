// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NewSQLiteTarget returns a target for the sqlite driver selected at build
// time (modernc by default, mattn with -tags mattn). In-memory targets are
// embedded; file targets are not.
//
// Path may be ":memory:" for an anonymous shared in-memory database,
// "memory:NAME" for a named one, or an absolute file path with a .db
// extension.
func NewSQLiteTarget(path string) (SQLTarget, error) {
	if _, ok := memoryName(path); ok {
		return SQLTarget{Driver: sqliteDriver, DSN: buildSQLiteDSN(path, memoryPragmas)}, nil
	}
	if !filepath.IsAbs(path) {
		return SQLTarget{}, fmt.Errorf("%s: sqlite database path must be absolute", path)
	}
	if filepath.Ext(path) != ".db" {
		return SQLTarget{}, fmt.Errorf("%s: expected .db extension", path)
	}
	return SQLTarget{Driver: sqliteDriver, DSN: buildSQLiteDSN(path, filePragmas)}, nil
}

// memoryName returns the shared-cache name for in-memory paths.
func memoryName(path string) (string, bool) {
	switch {
	case path == ":memory:":
		return "sqlinit", true
	case strings.HasPrefix(path, "memory:") && len(path) > len("memory:"):
		return strings.TrimPrefix(path, "memory:"), true
	}
	return "", false
}
