// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package versions

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeVersions returns four versions, most recent first, serials 4..1.
func makeVersions() []Version {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return Number([]Version{
		{ID: "3QJmnh.bak", Time: base.Add(1 * time.Hour)},
		{ID: "alpha-001", Time: base},
		{ID: "3QJxyz.bak", Time: base.Add(3 * time.Hour)},
		{ID: "current", Time: base.Add(4 * time.Hour)},
	})
}

func TestNumber(t *testing.T) {
	vs := makeVersions()

	ids := make([]string, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"current", "3QJxyz.bak", "3QJmnh.bak", "alpha-001"}, ids)
	assert.Equal(t, 4, vs[0].Serial)
	assert.Equal(t, 1, vs[3].Serial)
	assert.True(t, vs[0].Latest)
	assert.False(t, vs[1].Latest)
}

func TestResolve(t *testing.T) {
	vs := makeVersions()

	tests := []struct {
		name    string
		specs   []string
		wantIDs []string
		wantErr string
		wantIs  error
	}{
		{name: "no spec is current", wantIDs: []string{"current"}},
		{name: "relative", specs: []string{"~1", "~0"}, wantIDs: []string{"3QJxyz.bak", "current"}},
		{name: "relative out of range", specs: []string{"~4"}, wantErr: "out of range"},
		{name: "relative garbage", specs: []string{"~x"}, wantErr: "~x", wantIs: ErrBadSpec},
		{name: "relative negative", specs: []string{"~-1"}, wantErr: "~-1", wantIs: ErrBadSpec},
		{name: "zero", specs: []string{"0"}, wantIDs: []string{"current"}},
		{name: "negative index", specs: []string{"-2"}, wantIDs: []string{"3QJmnh.bak"}},
		{name: "negative out of range", specs: []string{"-9"}, wantErr: "out of range"},
		{name: "serial", specs: []string{"1", "3"}, wantIDs: []string{"alpha-001", "3QJxyz.bak"}},
		{name: "serial not found", specs: []string{"42"}, wantErr: "serial 42"},
		{name: "id prefix", specs: []string{"alpha"}, wantIDs: []string{"alpha-001"}},
		{name: "ambiguous prefix takes most recent", specs: []string{"3QJ"}, wantIDs: []string{"3QJxyz.bak"}},
		{name: "prefix is case sensitive", specs: []string{"ALPHA"}, wantErr: "id prefix ALPHA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(vs, tt.specs...)
			if tt.wantErr != "" {
				require.Error(t, err)
				wantIs := tt.wantIs
				if wantIs == nil {
					wantIs = ErrNoVersion
				}
				assert.ErrorIs(t, err, wantIs)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, v := range got {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestResolve_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	got, err := Resolve(makeVersions(), path, "~0")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, path, got[0].Path)
	assert.Equal(t, path, got[0].ID)
	assert.Equal(t, "current", got[1].ID)
}

func TestResolve_Empty(t *testing.T) {
	_, err := Resolve(nil)
	assert.ErrorIs(t, err, ErrNoVersion)
}
