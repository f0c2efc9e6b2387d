// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// use points FileEnv at a testdata file and loads it under namespace.
func use(t *testing.T, file string, namespace ...string) {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("testdata", file))
	require.NoError(t, err)
	t.Setenv(FileEnv, abs)

	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
	_, _ = Load(namespace...)
}

func TestLoad(t *testing.T) {
	use(t, "simple.yaml")
	assert.Equal(t, "recipes.json", Config.Data["store"])
	assert.Equal(t, "myFirstDatabase", Config.Data["database"])
	assert.NotEmpty(t, Config.Source)
	assert.Equal(t, Config.Source, Path())

	use(t, "mixed-types.yaml")
	assert.Equal(t, 20, Config.Data["limit"])
	assert.Equal(t, 0.5, Config.Data["ratio"])
	assert.Equal(t, []interface{}{"soup", "stew"}, Config.Data["tags"])

	use(t, "empty.yaml")
	assert.NotEmpty(t, Config.Source)
	assert.Empty(t, Config.Data)

	use(t, "nested.yaml", "ls")
	assert.Equal(t, "ls", Config.Namespace)
}

func TestLoad_Errors(t *testing.T) {
	for name, tc := range map[string]struct {
		path string
		want string
	}{
		"missing":   {path: "/nonexistent/path/rsheet.yaml", want: "config file not found"},
		"directory": {path: "testdata", want: "points to a directory"},
		"invalid":   {path: filepath.Join("testdata", "invalid.yaml"), want: "parse"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(FileEnv, tc.path)
			Config = Type{}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	t.Setenv(FileEnv, "/nonexistent/path/rsheet.yaml")
	assert.Equal(t, "", Path())
}

func TestGetters(t *testing.T) {
	use(t, "mixed-types.yaml")

	s, err := GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "recipes", s)

	n, err := GetInt("limit")
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	n, err = GetInt("ratio")
	require.NoError(t, err)
	assert.Equal(t, 0, n, "floats truncate")

	b, err := GetBool("bold")
	require.NoError(t, err)
	assert.True(t, b)
}

func TestGetters_WrongType(t *testing.T) {
	use(t, "mixed-types.yaml")

	_, err := GetBool("name")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = GetString("limit")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = GetInt("tags")
	assert.ErrorIs(t, err, ErrWrongType)

	// A default does not hide a value of the wrong type.
	_, err = GetString("limit", "x")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestGetters_Defaults(t *testing.T) {
	use(t, "mixed-types.yaml")

	s, err := GetString("nope", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", s)

	n, err := GetInt("nope", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	b, err := GetBool("nope", true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = GetInt("nope")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrWrongType)
}

func TestNamespace(t *testing.T) {
	use(t, "nested.yaml", "ls")

	n, err := GetInt("limit")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	s, err := GetString("store")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", s, "namespaced key wins")

	s, err = GetString("store.s3.region")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", s, "falls back to the bare key")

	s, err = GetString("colors.title")
	require.NoError(t, err)
	assert.Equal(t, "#f6be00", s)
}

func TestGetStringSlice(t *testing.T) {
	use(t, "string-slice.yaml")

	got, err := GetStringSlice("bold")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, got)

	got, err = GetStringSlice("ls.mine")
	require.NoError(t, err)
	assert.Equal(t, []string{"--limit 5", "--sort -rating"}, got)

	_, err = GetStringSlice("ls.broken")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = GetStringSlice("chart")
	assert.ErrorIs(t, err, ErrWrongType)

	got, err = GetStringSlice("missing", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)

	use(t, "string-slice.yaml", "chart")
	got, err = GetStringSlice("defaults")
	require.NoError(t, err)
	assert.Equal(t, []string{"--by category"}, got)
}
