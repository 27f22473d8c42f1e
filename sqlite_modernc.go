// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build !mattn

package sqlinit

import (
	"fmt"
	"strings"
)

// sqliteDriver is the database/sql name of modernc.org/sqlite.
const sqliteDriver = "sqlite"

// pragma represents a SQLite pragma setting.
type pragma struct {
	name  string
	value string
}

// memoryPragmas are applied to in-memory targets.
var memoryPragmas = []pragma{
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "journal_mode", value: "MEMORY"},
	{name: "synchronous", value: "OFF"},
	{name: "temp_store", value: "MEMORY"},
}

// filePragmas are applied to file-backed targets.
var filePragmas = []pragma{
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "journal_mode", value: "WAL"},
	{name: "synchronous", value: "NORMAL"},
}

// buildSQLiteDSN constructs a DSN for modernc.org/sqlite.
// modernc uses the syntax: file:path?_pragma=name(value)&_pragma=name2(value2)
// Named in-memory databases use file:name?mode=memory&cache=shared so that
// every connection in the process sees the same database.
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
		fmt.Fprintf(&sb, "_pragma=%s(%s)", p.name, p.value)
		sep = "&"
	}
	return sb.String()
}
