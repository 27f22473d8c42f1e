// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/mdhender/sqlinit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openMemory returns a target for a named in-memory database and a
// connection that keeps the database alive for the duration of the test.
func openMemory(t *testing.T, name string) (sqlinit.SQLTarget, *sql.Conn) {
	t.Helper()
	target, err := sqlinit.NewSQLiteTarget("memory:" + name)
	require.NoError(t, err)
	assert.True(t, target.Embedded())

	db, err := sql.Open(target.Driver, target.DSN)
	require.NoError(t, err)
	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		db.Close()
	})
	return target, conn
}

func newSettings(t *testing.T, spec sqlinit.SettingsSpec) sqlinit.Settings {
	t.Helper()
	s, err := sqlinit.NewSettings(spec)
	require.NoError(t, err)
	return s
}

func count(t *testing.T, conn *sql.Conn, query string) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRowContext(context.Background(), query).Scan(&n))
	return n
}

// TestInitializer_SchemaThenData tests that schema scripts run before data
// scripts and that quoted separators stay inside their statement.
func TestInitializer_SchemaThenData(t *testing.T) {
	target, conn := openMemory(t, "init_schema_data")
	classpath := fstest.MapFS{
		"schema-all.sql": {Data: []byte("create table users (id integer primary key, name text not null);")},
		"schema.sql":     {Data: []byte("create table roles (id integer primary key, name text);")},
		"data.sql": {Data: []byte(`
-- seed data; one row per statement
insert into users (name) values ('alice');
insert into users (name) values ('bob; the builder');
insert into roles (name) values ('admin');
`)},
	}
	settings := newSettings(t, sqlinit.SettingsSpec{
		SchemaLocations: sqlinit.ScriptLocations(nil, "schema", "all"),
		DataLocations:   sqlinit.ScriptLocations(nil, "data", "all"),
	})
	ini := sqlinit.NewInitializer(target, settings, sqlinit.ModeEmbedded, sqlinit.ResourceLoader{Classpath: classpath}, nil)

	ran, err := ini.InitializeDatabase(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, count(t, conn, "select count(*) from users"))
	assert.Equal(t, 1, count(t, conn, "select count(*) from roles"))
	assert.Equal(t, 1, count(t, conn, "select count(*) from users where name = 'bob; the builder'"))
}

// TestInitializer_NoScripts tests that nothing runs when no script exists.
func TestInitializer_NoScripts(t *testing.T) {
	target, _ := openMemory(t, "init_empty")
	settings := newSettings(t, sqlinit.SettingsSpec{
		SchemaLocations: sqlinit.ScriptLocations(nil, "schema", "all"),
		DataLocations:   []string{},
	})
	ini := sqlinit.NewInitializer(target, settings, sqlinit.ModeAlways, sqlinit.ResourceLoader{Classpath: fstest.MapFS{}}, nil)

	ran, err := ini.InitializeDatabase(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
}

// TestInitializer_StopOnError tests that the first failing statement stops
// the run.
func TestInitializer_StopOnError(t *testing.T) {
	target, conn := openMemory(t, "init_fail")
	classpath := fstest.MapFS{
		"schema.sql": {Data: []byte("create table t (id integer);\ninsert into missing values (1);\ninsert into t values (1);")},
	}
	settings := newSettings(t, sqlinit.SettingsSpec{SchemaLocations: []string{"schema.sql"}})
	ini := sqlinit.NewInitializer(target, settings, sqlinit.ModeAlways, sqlinit.ResourceLoader{Classpath: classpath}, nil)

	_, err := ini.InitializeDatabase(context.Background())
	var scriptErr *sqlinit.ScriptError
	require.True(t, errors.As(err, &scriptErr))
	assert.Equal(t, "schema.sql", scriptErr.Script)
	assert.Equal(t, 2, scriptErr.Statement)
	assert.Equal(t, "insert into missing values (1)", scriptErr.SQL)
	assert.Equal(t, 0, count(t, conn, "select count(*) from t"))
}

// TestInitializer_ContinueOnError tests that failing statements are skipped.
func TestInitializer_ContinueOnError(t *testing.T) {
	target, conn := openMemory(t, "init_continue")
	classpath := fstest.MapFS{
		"schema.sql": {Data: []byte("create table t (id integer);\ninsert into missing values (1);\ninsert into t values (1);")},
	}
	settings := newSettings(t, sqlinit.SettingsSpec{SchemaLocations: []string{"schema.sql"}, ContinueOnError: true})
	ini := sqlinit.NewInitializer(target, settings, sqlinit.ModeAlways, sqlinit.ResourceLoader{Classpath: classpath}, nil)

	ran, err := ini.InitializeDatabase(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, count(t, conn, "select count(*) from t"))
}

// TestInitializer_UnterminatedComment tests that a script with an unclosed
// block comment fails as a whole, even with continue-on-error set.
func TestInitializer_UnterminatedComment(t *testing.T) {
	for _, continueOnError := range []bool{false, true} {
		target := newFakeTarget("db", false)
		classpath := fstest.MapFS{
			"schema.sql": {Data: []byte("create table a (id int);\n/* unterminated\ncreate table b (id int);")},
			"data.sql":   {Data: []byte("insert into a values (1);")},
		}
		settings := newSettings(t, sqlinit.SettingsSpec{
			SchemaLocations: []string{"schema.sql"},
			DataLocations:   []string{"data.sql"},
			ContinueOnError: continueOnError,
		})
		ini := sqlinit.NewInitializer(target, settings, sqlinit.ModeAlways, sqlinit.ResourceLoader{Classpath: classpath}, nil)

		_, err := ini.InitializeDatabase(context.Background())
		var scriptErr *sqlinit.ScriptError
		require.True(t, errors.As(err, &scriptErr), "continue-on-error %v: %v", continueOnError, err)
		assert.Equal(t, "schema.sql", scriptErr.Script)
		assert.Equal(t, 0, scriptErr.Statement)
		assert.ErrorIs(t, err, sqlinit.ErrUnterminatedComment)
		assert.Empty(t, target.rec.statements)
	}
}

// TestInitializer_Separator tests a custom statement separator.
func TestInitializer_Separator(t *testing.T) {
	target, conn := openMemory(t, "init_separator")
	classpath := fstest.MapFS{
		"schema.sql": {Data: []byte(`create table t (id integer, n integer)@@
create trigger t_ins after insert on t begin update t set n = 1 where id = new.id; end@@
insert into t (id) values (7)@@`)},
	}
	settings := newSettings(t, sqlinit.SettingsSpec{SchemaLocations: []string{"schema.sql"}, Separator: "@@"})
	ini := sqlinit.NewInitializer(target, settings, sqlinit.ModeAlways, sqlinit.ResourceLoader{Classpath: classpath}, nil)

	_, err := ini.InitializeDatabase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, conn, "select n from t where id = 7"))
}

// TestInitializer_Encoding tests decoding scripts with the configured
// encoding.
func TestInitializer_Encoding(t *testing.T) {
	ctx := context.Background()
	target, conn := openMemory(t, "init_encoding")
	// "café" in ISO-8859-1
	script := append([]byte("create table t (name text);\ninsert into t values ('caf"), 0xE9)
	script = append(script, []byte("');")...)
	classpath := fstest.MapFS{"schema.sql": {Data: script}}
	settings := newSettings(t, sqlinit.SettingsSpec{SchemaLocations: []string{"schema.sql"}, Encoding: "ISO-8859-1"})
	ini := sqlinit.NewInitializer(target, settings, sqlinit.ModeAlways, sqlinit.ResourceLoader{Classpath: classpath}, nil)

	_, err := ini.InitializeDatabase(ctx)
	require.NoError(t, err)
	var name string
	require.NoError(t, conn.QueryRowContext(ctx, "select name from t").Scan(&name))
	assert.Equal(t, "café", name)
}
