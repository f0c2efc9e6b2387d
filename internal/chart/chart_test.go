// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

func recipes() tablediff.Snapshot {
	return tablediff.New([]string{"name", "category", "rating"},
		tablediff.Row{"name": "Soup", "category": "starter", "rating": float64(3)},
		tablediff.Row{"name": "Stew", "category": "main", "rating": float64(4)},
		tablediff.Row{"name": "Pie", "category": "main", "rating": float64(5)},
		tablediff.Row{"name": "Salad", "category": "starter", "rating": "n/a"},
		tablediff.Row{"name": "Toast", "rating": int32(2)},
	)
}

func TestParseAgg(t *testing.T) {
	for in, want := range map[string]Agg{"": Count, "count": Count, " SUM ": Sum, "mean": Mean} {
		got, err := ParseAgg(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseAgg("median")
	assert.ErrorIs(t, err, ErrUnknownAgg)
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		agg   Agg
		want  []Bar
	}{
		{
			name: "count",
			agg:  Count,
			want: []Bar{
				{Label: "main", Value: 2, Rows: 2},
				{Label: "starter", Value: 2, Rows: 2},
				{Label: NoneLabel, Value: 1, Rows: 1},
			},
		},
		{
			name:  "sum skips non-numeric",
			value: "rating",
			agg:   Sum,
			want: []Bar{
				{Label: "main", Value: 9, Rows: 2},
				{Label: "starter", Value: 3, Rows: 1},
				{Label: NoneLabel, Value: 2, Rows: 1},
			},
		},
		{
			name:  "mean",
			value: "rating",
			agg:   Mean,
			want: []Bar{
				{Label: "main", Value: 4.5, Rows: 2},
				{Label: "starter", Value: 3, Rows: 1},
				{Label: NoneLabel, Value: 2, Rows: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(recipes(), "category", tt.value, tt.agg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregate_Errors(t *testing.T) {
	_, err := Aggregate(recipes(), "category", "", Sum)
	assert.ErrorIs(t, err, ErrNoValue)

	_, err = Aggregate(recipes(), "cuisine", "", Count)
	assert.ErrorIs(t, err, ErrNoColumn)

	_, err = Aggregate(recipes(), "category", "rating", Agg("median"))
	assert.ErrorIs(t, err, ErrUnknownAgg)

	bars, err := Aggregate(tablediff.Snapshot{}, "category", "", Count)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, []Bar{
		{Label: "main", Value: 4},
		{Label: "starter", Value: 2},
	}, RenderOptions{Title: "rating by category", Width: 10})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rating by category", lines[0])
	assert.Equal(t, "main     "+strings.Repeat("█", 10)+" 4", lines[1])
	assert.Equal(t, "starter  "+strings.Repeat("█", 5)+" 2", lines[2])
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, nil, RenderOptions{})
	assert.Empty(t, buf.String())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1,234", FormatValue(1234))
	assert.Equal(t, "4.5", FormatValue(4.5))
	assert.Equal(t, "1,234.5", FormatValue(1234.5))
}
