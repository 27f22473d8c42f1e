// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit_test

import (
	"testing"

	"github.com/mdhender/sqlinit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func split(t *testing.T, script, separator string) []string {
	t.Helper()
	stmts, err := sqlinit.SplitStatements(script, separator)
	require.NoError(t, err)
	return stmts
}

// TestSplitStatements_Separator tests splitting on the default separator.
func TestSplitStatements_Separator(t *testing.T) {
	got := split(t, "create table a (id int);\ninsert into a values (1);\n", ";")
	assert.Equal(t, []string{"create table a (id int)", "insert into a values (1)"}, got)
}

// TestSplitStatements_Quotes tests that separators inside quotes are kept.
func TestSplitStatements_Quotes(t *testing.T) {
	got := split(t, `insert into a values ('x;y'); insert into a values ("p;q");`, ";")
	assert.Equal(t, []string{`insert into a values ('x;y')`, `insert into a values ("p;q")`}, got)
}

// TestSplitStatements_DoubledQuotes tests that a doubled quote does not end
// a quoted literal.
func TestSplitStatements_DoubledQuotes(t *testing.T) {
	got := split(t, `insert into a values ('it''s;ok'); select 1;`, ";")
	assert.Equal(t, []string{`insert into a values ('it''s;ok')`, "select 1"}, got)
}

// TestSplitStatements_BackslashEscapes tests that a backslash-escaped quote
// does not end a quoted literal.
func TestSplitStatements_BackslashEscapes(t *testing.T) {
	got := split(t, `insert into t values ('it\'s; ok'); insert into t values ('x');`, ";")
	assert.Equal(t, []string{`insert into t values ('it\'s; ok')`, `insert into t values ('x')`}, got)

	got = split(t, `insert into t values ("a\"b;c", 'd\\'); select 2;`, ";")
	assert.Equal(t, []string{`insert into t values ("a\"b;c", 'd\\')`, "select 2"}, got)
}

// TestSplitStatements_Comments tests that comments are stripped and their
// separators ignored.
func TestSplitStatements_Comments(t *testing.T) {
	script := "-- leading; comment\ncreate table a (id int); /* block; comment */\nselect 1;"
	got := split(t, script, ";")
	assert.Equal(t, []string{"create table a (id int)", "select 1"}, got)
}

// TestSplitStatements_UnterminatedComment tests that an unclosed block
// comment is an error instead of silently dropping the rest of the script.
func TestSplitStatements_UnterminatedComment(t *testing.T) {
	for _, separator := range []string{";", "@@", sqlinit.EOFSeparator} {
		stmts, err := sqlinit.SplitStatements("create table a (id int);\n/* unterminated\ncreate table b (id int);", separator)
		assert.ErrorIs(t, err, sqlinit.ErrUnterminatedComment, separator)
		assert.Nil(t, stmts, separator)
	}
}

// TestSplitStatements_NewlineFallback tests that each line is a statement
// when the separator never appears.
func TestSplitStatements_NewlineFallback(t *testing.T) {
	got := split(t, "select 1\nselect 2\n\nselect 3", ";")
	assert.Equal(t, []string{"select 1", "select 2", "select 3"}, got)
}

// TestSplitStatements_CustomSeparator tests a multi-character separator.
func TestSplitStatements_CustomSeparator(t *testing.T) {
	script := "create trigger t after insert on a begin update b set n = n + 1; end@@\nselect 1@@"
	got := split(t, script, "@@")
	assert.Equal(t, []string{"create trigger t after insert on a begin update b set n = n + 1; end", "select 1"}, got)
}

// TestSplitStatements_EOFSeparator tests treating the script as one statement.
func TestSplitStatements_EOFSeparator(t *testing.T) {
	got := split(t, "select 1;\nselect 2;", sqlinit.EOFSeparator)
	assert.Equal(t, []string{"select 1;\nselect 2;"}, got)
}

// TestSplitStatements_Empty tests that a script of only comments yields
// no statements.
func TestSplitStatements_Empty(t *testing.T) {
	assert.Empty(t, split(t, "  \n-- only a comment\n", ";"))
}
