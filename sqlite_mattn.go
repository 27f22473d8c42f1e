// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build mattn

package sqlinit

import (
	"fmt"
	"strings"
)

// sqliteDriver is the database/sql name of github.com/mattn/go-sqlite3.
const sqliteDriver = "sqlite3"

// pragma represents a SQLite pragma setting.
type pragma struct {
	name  string
	value string
}

// memoryPragmas are applied to in-memory targets.
var memoryPragmas = []pragma{
	{name: "_foreign_keys", value: "1"},
	{name: "_busy_timeout", value: "5000"},
	{name: "_journal_mode", value: "MEMORY"},
	{name: "_synchronous", value: "OFF"},
}

// filePragmas are applied to file-backed targets.
var filePragmas = []pragma{
	{name: "_foreign_keys", value: "1"},
	{name: "_busy_timeout", value: "5000"},
	{name: "_journal_mode", value: "WAL"},
	{name: "_synchronous", value: "NORMAL"},
}

// buildSQLiteDSN constructs a DSN for github.com/mattn/go-sqlite3.
// mattn uses the syntax: file:path?_foreign_keys=1&_journal_mode=WAL
func buildSQLiteDSN(path string, pragmas []pragma) string {
	var sb strings.Builder
	sep := "?"
	if name, ok := memoryName(path); ok {
		fmt.Fprintf(&sb, "file:%s?mode=memory&cache=shared", name)
		sep = "&"
	} else {
		sb.WriteString("file:")
		sb.WriteString(path)
	}
	for _, p := range pragmas {
		sb.WriteString(sep)
		fmt.Fprintf(&sb, "%s=%s", p.name, p.value)
		sep = "&"
	}
	return sb.String()
}
