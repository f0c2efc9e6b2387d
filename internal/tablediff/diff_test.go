// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tablediff

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipes() Snapshot {
	return New([]string{"id", "name", "rating", "category"},
		Row{"id": 1.0, "name": "Soup", "rating": 3.0, "category": "starter"},
		Row{"id": 2.0, "name": "Stew", "rating": nil, "category": "main"},
		Row{"id": 3.0, "name": "Tart", "rating": 4.0},
	)
}

func TestDiff_Examples(t *testing.T) {
	tests := []struct {
		name     string
		current  Snapshot
		previous Snapshot
		opts     []Option
		want     []ChangeRecord
		wantErr  error
	}{
		{
			name:     "single rating change",
			current:  New([]string{"id", "rating", "name"}, Row{"id": 1, "rating": 5, "name": "Soup"}),
			previous: New([]string{"id", "rating", "name"}, Row{"id": 1, "rating": 3, "name": "Soup"}),
			want:     []ChangeRecord{{Row: 0, Column: "rating", Current: 5, Previous: 3}},
		},
		{
			name:     "single rating change with id field",
			current:  New([]string{"id", "rating", "name"}, Row{"id": 1, "rating": 5, "name": "Soup"}),
			previous: New([]string{"id", "rating", "name"}, Row{"id": 1, "rating": 3, "name": "Soup"}),
			opts:     []Option{WithRowIDField("id")},
			want:     []ChangeRecord{{Row: 0, RowID: 1, Column: "rating", Current: 5, Previous: 3}},
		},
		{
			name:     "null against null",
			current:  New([]string{"id", "rating"}, Row{"id": 1, "rating": nil}),
			previous: New([]string{"id", "rating"}, Row{"id": 1, "rating": nil}),
			want:     nil,
		},
		{
			name:     "missing against null",
			current:  New([]string{"id", "rating"}, Row{"id": 1}),
			previous: New([]string{"id", "rating"}, Row{"id": 1, "rating": nil}),
			want:     nil,
		},
		{
			name:     "null against zero",
			current:  New([]string{"id", "rating"}, Row{"id": 1, "rating": nil}),
			previous: New([]string{"id", "rating"}, Row{"id": 1, "rating": 0}),
			want:     []ChangeRecord{{Row: 0, Column: "rating", Current: nil, Previous: 0}},
		},
		{
			name:     "empty string against null",
			current:  New([]string{"name"}, Row{"name": ""}),
			previous: New([]string{"name"}, Row{}),
			want:     []ChangeRecord{{Row: 0, Column: "name", Current: "", Previous: nil}},
		},
		{
			name:     "mismatched column sets",
			current:  New([]string{"id", "category"}, Row{"id": 1, "category": "main"}),
			previous: New([]string{"id"}, Row{"id": 1}),
			wantErr:  ErrShapeMismatch,
		},
		{
			name:     "mismatched row counts",
			current:  New([]string{"id"}, Row{"id": 1}, Row{"id": 2}),
			previous: New([]string{"id"}, Row{"id": 1}),
			wantErr:  ErrLengthMismatch,
		},
		{
			name:     "id field missing",
			current:  New([]string{"id", "name"}, Row{"id": 1, "name": "a"}, Row{"name": "b"}),
			previous: New([]string{"id", "name"}, Row{"id": 1, "name": "a"}, Row{"id": 2, "name": "b"}),
			opts:     []Option{WithRowIDField("id")},
			wantErr:  ErrFieldNotFound,
		},
		{
			name:     "id field not a column",
			current:  New([]string{"name"}, Row{"name": "a"}),
			previous: New([]string{"name"}, Row{"name": "a"}),
			opts:     []Option{WithRowIDField("id")},
			wantErr:  ErrFieldNotFound,
		},
		{
			name:     "duplicate id",
			current:  New([]string{"id"}, Row{"id": 1}, Row{"id": 1.0}),
			previous: New([]string{"id"}, Row{"id": 1}, Row{"id": 2}),
			opts:     []Option{WithRowIDField("id")},
			wantErr:  ErrDuplicateRowID,
		},
		{
			name:     "numeric kinds compare by value",
			current:  New([]string{"rating"}, Row{"rating": int32(4)}),
			previous: New([]string{"rating"}, Row{"rating": 4.0}),
			want:     nil,
		},
		{
			name:     "string is not a number",
			current:  New([]string{"rating"}, Row{"rating": "4"}),
			previous: New([]string{"rating"}, Row{"rating": 4.0}),
			want:     []ChangeRecord{{Row: 0, Column: "rating", Current: "4", Previous: 4.0}},
		},
		{
			name:     "absent not equal when disabled",
			current:  New([]string{"rating"}, Row{"rating": nil}),
			previous: New([]string{"rating"}, Row{"rating": nil}),
			opts:     []Option{WithAbsentEqualsAbsent(false)},
			want:     []ChangeRecord{{Row: 0, Column: "rating"}},
		},
		{
			name:     "empty snapshots",
			current:  Snapshot{},
			previous: Snapshot{},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Diff(tt.current, tt.previous, tt.opts...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				var de *Error
				assert.True(t, errors.As(err, &de))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_Idempotence(t *testing.T) {
	a := recipes()
	got, err := Diff(a, a, WithRowIDField("id"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiff_Symmetry(t *testing.T) {
	a := recipes()
	b := a.Clone()
	b.Rows[0]["rating"] = 5.0
	b.Rows[1]["rating"] = 2.0
	b.Rows[2]["category"] = "dessert"

	ab, err := Diff(a, b)
	require.NoError(t, err)
	ba, err := Diff(b, a)
	require.NoError(t, err)

	require.Len(t, ab, 3)
	assert.Equal(t, Invert(ab), ba)
}

func TestDiff_OrderAndCompleteness(t *testing.T) {
	a := recipes()
	b := a.Clone()
	b.Rows[2]["name"] = "Pie"
	b.Rows[0]["category"] = "soup"
	b.Rows[0]["id"] = 9.0
	b.Rows[2]["rating"] = 1.0

	got, err := Diff(b, a)
	require.NoError(t, err)

	var cells []string
	for _, r := range got {
		cells = append(cells, r.String())
	}
	assert.Equal(t, []string{
		"0.id: 1 -> 9",
		"0.category: starter -> soup",
		"2.name: Tart -> Pie",
		"2.rating: 4 -> 1",
	}, cells)
	assert.Equal(t, 2, CountRows(got))
}

func TestDiff_ColumnOrderFollowsCurrent(t *testing.T) {
	cur := New([]string{"b", "a"}, Row{"a": 1, "b": 1})
	prev := New([]string{"a", "b"}, Row{"a": 2, "b": 2})

	got, err := Diff(cur, prev)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Column)
	assert.Equal(t, "a", got[1].Column)
}

func TestDiff_ErrorMessage(t *testing.T) {
	cur := New([]string{"id", "category"}, Row{"id": 1})
	prev := New([]string{"id", "cuisine"}, Row{"id": 1})

	_, err := Diff(cur, prev)
	require.Error(t, err)
	assert.Equal(t, "shape mismatch: only in current: category; only in previous: cuisine", err.Error())

	_, err = Diff(New([]string{"id"}, Row{}), New([]string{"id"}, Row{"id": 1}), WithRowIDField("id"))
	require.Error(t, err)
	assert.Equal(t, `field not found in current snapshot at row 0: "id"`, err.Error())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nan nil", math.NaN(), nil, false},
		{"nan nan", math.NaN(), math.NaN(), true},
		{"nan zero", math.NaN(), 0.0, false},
		{"nil zero", nil, 0, false},
		{"zero nil", 0.0, nil, false},
		{"nil empty", nil, "", false},
		{"int float", 3, 3.0, true},
		{"int64 int32", int64(7), int32(7), true},
		{"large int64", int64(1<<53 + 1), int64(1 << 53), false},
		{"large int64 same", int64(1<<53 + 1), int64(1<<53 + 1), true},
		{"uint int", uint64(9), int64(9), true},
		{"uint negative int", uint64(1<<64 - 1), int64(-1), false},
		{"strings", "a", "a", true},
		{"strings differ", "a", "b", false},
		{"bools", true, true, true},
		{"bool string", true, "true", false},
		{"slices", []any{"salt", "pepper"}, []any{"salt", "pepper"}, true},
		{"maps", map[string]any{"kcal": 1.0}, map[string]any{"kcal": 2.0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b, true))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a, true), "symmetric")
		})
	}
}

func TestDiff_LargeIntegers(t *testing.T) {
	cur := New([]string{"id", "qty"},
		Row{"id": int64(1<<53 + 1), "qty": int64(1<<53 + 1)},
		Row{"id": int64(1 << 53), "qty": int64(2)},
	)
	prev := New([]string{"id", "qty"},
		Row{"id": int64(1<<53 + 1), "qty": int64(1 << 53)},
		Row{"id": int64(1 << 53), "qty": int64(2)},
	)

	got, err := Diff(cur, prev, WithRowIDField("id"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "qty", got[0].Column)
	assert.Equal(t, int64(1<<53 + 1), got[0].RowID)
}

func TestIDKey(t *testing.T) {
	assert.Equal(t, idKey(1), idKey(1.0))
	assert.Equal(t, idKey(int32(1)), idKey(uint8(1)))
	assert.NotEqual(t, idKey(int64(1<<53 + 1)), idKey(int64(1 << 53)))
	assert.NotEqual(t, idKey("1"), idKey(1))
	assert.Equal(t, "n:1.5", idKey(1.5))
}

func TestSnapshotColumns_Derived(t *testing.T) {
	s := Snapshot{Rows: []Row{
		{"name": "Soup", "id": 1},
		{"rating": 3, "id": 2, "author": "x"},
	}}
	assert.Equal(t, []string{"id", "name", "author", "rating"}, s.Columns())
}
