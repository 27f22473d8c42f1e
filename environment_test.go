// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mdhender/sqlinit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnvironment_Keys tests nested maps and dotted keys.
func TestEnvironment_Keys(t *testing.T) {
	env, err := sqlinit.NewEnvironment(sqlinit.FromMap(map[string]any{
		"datasource": map[string]any{"platform": "h2"},
		"datasource.separator": "@@",
	}))
	require.NoError(t, err)
	assert.Equal(t, "h2", env.String("datasource.platform"))
	assert.Equal(t, "@@", env.String("datasource.separator"))
	assert.Equal(t, []string{"datasource.platform", "datasource.separator"}, env.Keys())
	assert.False(t, env.Contains("datasource.schema"))
}

// TestEnvironment_YAML tests loading lists and booleans from YAML.
func TestEnvironment_YAML(t *testing.T) {
	env, err := sqlinit.NewEnvironment(sqlinit.FromYAML([]byte(`
datasource:
  schema:
    - classpath:a.sql
    - classpath:b.sql
  continue-on-error: true
`)))
	require.NoError(t, err)
	got, ok := env.Strings("datasource.schema")
	require.True(t, ok)
	assert.Equal(t, []string{"classpath:a.sql", "classpath:b.sql"}, got)
	b, err := env.Bool("datasource.continue-on-error")
	require.NoError(t, err)
	assert.True(t, b)
}

// TestEnvironment_CommaList tests splitting a comma separated value.
func TestEnvironment_CommaList(t *testing.T) {
	env, err := sqlinit.NewEnvironment(sqlinit.FromMap(map[string]any{
		"datasource.data": "a.sql, b.sql",
	}))
	require.NoError(t, err)
	got, ok := env.Strings("datasource.data")
	require.True(t, ok)
	assert.Equal(t, []string{"a.sql", "b.sql"}, got)
}

// TestEnvironment_IndexedKeys tests that indexed keys are collected in
// numeric order.
func TestEnvironment_IndexedKeys(t *testing.T) {
	env, err := sqlinit.NewEnvironment(sqlinit.FromMap(map[string]any{
		"datasource.schema[1]": "b.sql",
		"datasource.schema[0]": "a.sql",
		"datasource.schema[10]": "c.sql",
	}))
	require.NoError(t, err)
	assert.True(t, env.Contains("datasource.schema[0]"))
	got, ok := env.Strings("datasource.schema")
	require.True(t, ok)
	assert.Equal(t, []string{"a.sql", "b.sql", "c.sql"}, got)
}

// TestEnvironment_EmptyList tests that an explicit empty list is present.
func TestEnvironment_EmptyList(t *testing.T) {
	env, err := sqlinit.NewEnvironment(sqlinit.FromYAML([]byte("datasource:\n  schema: []\n")))
	require.NoError(t, err)
	got, ok := env.Strings("datasource.schema")
	require.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEnvironment_AbsentList(t *testing.T) {
	env, err := sqlinit.NewEnvironment()
	require.NoError(t, err)
	got, ok := env.Strings("datasource.schema")
	assert.False(t, ok)
	assert.Nil(t, got)
}

// TestEnvironment_MalformedBool tests that the key is named in the error.
func TestEnvironment_MalformedBool(t *testing.T) {
	env, err := sqlinit.NewEnvironment(sqlinit.FromMap(map[string]any{"datasource.continue-on-error": "perhaps"}))
	require.NoError(t, err)
	_, err = env.Bool("datasource.continue-on-error")
	assert.ErrorContains(t, err, "datasource.continue-on-error")
}

// TestEnvironment_FromEnv tests mapping environment variables to keys.
func TestEnvironment_FromEnv(t *testing.T) {
	t.Setenv("SQLINIT_TEST_DATASOURCE__SCHEMA_USERNAME", "admin")
	t.Setenv("SQLINIT_TEST_DATASOURCE__INITIALIZATION_MODE", "always")
	env, err := sqlinit.NewEnvironment(sqlinit.FromEnv("SQLINIT_TEST_"))
	require.NoError(t, err)
	assert.Equal(t, "admin", env.String("datasource.schema-username"))
	assert.Equal(t, "always", env.String("datasource.initialization-mode"))
}

// TestEnvironment_Override tests that later sources win.
func TestEnvironment_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("datasource:\n  platform: h2\n  separator: '@@'\n"), 0o644))
	t.Setenv("SQLINIT_OVERRIDE_DATASOURCE__PLATFORM", "postgres")

	env, err := sqlinit.NewEnvironment(sqlinit.FromYAMLFile(path), sqlinit.FromEnv("SQLINIT_OVERRIDE_"))
	require.NoError(t, err)
	assert.Equal(t, "postgres", env.String("datasource.platform"))
	assert.Equal(t, "@@", env.String("datasource.separator"))
}

func TestEnvironment_MissingFile(t *testing.T) {
	_, err := sqlinit.NewEnvironment(sqlinit.FromYAMLFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorContains(t, err, "read config")
}
