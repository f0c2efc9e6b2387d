// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tablediff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_RoundTrip(t *testing.T) {
	prev := recipes()
	cur := prev.Clone()
	cur.Rows[0]["rating"] = 5.0
	cur.Rows[1]["rating"] = 1.0
	delete(cur.Rows[0], "category")

	records, err := Diff(cur, prev, WithRowIDField("id"))
	require.NoError(t, err)

	forward, err := Apply(prev, records, Forward, WithRowIDField("id"))
	require.NoError(t, err)
	again, err := Diff(forward, cur)
	require.NoError(t, err)
	assert.Empty(t, again)

	reverse, err := Apply(cur, records, Reverse, WithRowIDField("id"))
	require.NoError(t, err)
	again, err = Diff(reverse, prev)
	require.NoError(t, err)
	assert.Empty(t, again)

	// The inputs are untouched.
	assert.Equal(t, 3.0, prev.Rows[0]["rating"])
	assert.NotContains(t, cur.Rows[0], "category")
}

func TestApply_ByIDIgnoresPosition(t *testing.T) {
	s := New([]string{"id", "name"}, Row{"id": "b", "name": "Stew"}, Row{"id": "a", "name": "Soup"})
	records := []ChangeRecord{{Row: 0, RowID: "a", Column: "name", Current: "Broth", Previous: "Soup"}}

	got, err := Apply(s, records, Forward, WithRowIDField("id"))
	require.NoError(t, err)
	assert.Equal(t, "Stew", got.Rows[0]["name"])
	assert.Equal(t, "Broth", got.Rows[1]["name"])
}

func TestApply_Errors(t *testing.T) {
	s := New([]string{"id"}, Row{"id": 1})

	_, err := Apply(s, []ChangeRecord{{Row: 4, Column: "id", Current: 2}}, Forward)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = Apply(s, []ChangeRecord{{RowID: 7, Column: "id", Current: 2}}, Forward, WithRowIDField("id"))
	assert.True(t, errors.Is(err, ErrFieldNotFound))
}
