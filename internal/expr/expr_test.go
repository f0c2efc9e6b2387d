// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

var soup = tablediff.Row{
	"id":        float64(1),
	"name":      "Tomato Soup",
	"category":  "soup",
	"rating":    float64(5),
	"tags":      []any{"vegan", "quick"},
	"nutrition": map[string]any{"calories": float64(180)},
	"prep time": float64(15),
	"notes":     nil,
}

func TestCompile(t *testing.T) {
	_, err := Compile("rating >")
	assert.Error(t, err)

	e, err := Compile("rating > 3")
	require.NoError(t, err)
	assert.Equal(t, "rating > 3", e.String())
}

func TestMatch(t *testing.T) {
	tests := []struct {
		src     string
		want    bool
		wantErr bool
	}{
		{src: `rating > 4`, want: true},
		{src: `rating >= 6`, want: false},
		{src: `category == "soup" && rating == 5`, want: true},
		{src: `contains(tags, "vegan")`, want: true},
		{src: `contains(tags, "spicy")`, want: false},
		{src: `nutrition.calories < 200`, want: true},
		{src: `row["prep time"] <= 15`, want: true},
		{src: `lower(name) == "tomato soup"`, want: true},
		{src: `can(regex("^Tom", name))`, want: true},
		{src: `notes == null`, want: true},
		{src: `cuisine == null`, want: true},
		{src: `try(cuisine == "thai", false)`, want: false},
		{src: `null`, want: false},
		{src: `rating`, wantErr: true},
		{src: `cuisine > 3`, wantErr: true},
		{src: `nosuchfunc(name)`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Compile(tt.src)
			require.NoError(t, err)

			got, err := e.Match(soup)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter(t *testing.T) {
	s := tablediff.New([]string{"name", "rating"},
		tablediff.Row{"name": "Tomato Soup", "rating": float64(5)},
		tablediff.Row{"name": "Beef Stew", "rating": float64(3)},
		tablediff.Row{"name": "Tortilla Soup"},
	)

	e, err := Compile("rating >= 3")
	require.NoError(t, err)

	got := e.Filter(s)
	assert.Equal(t, []string{"name", "rating"}, got.Cols)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "Beef Stew", got.Rows[1]["name"])
}

func TestEval(t *testing.T) {
	e, err := Compile(`upper(substr(name, 0, 6))`)
	require.NoError(t, err)

	v, err := e.Eval(soup)
	require.NoError(t, err)
	assert.Equal(t, "TOMATO", FromCty(v))
}

func TestCtyRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "bool", in: true, want: true},
		{name: "int", in: 3, want: float64(3)},
		{name: "int32", in: int32(3), want: float64(3)},
		{name: "float", in: 4.5, want: 4.5},
		{name: "string", in: "soup", want: "soup"},
		{name: "empty list", in: []any{}, want: []any{}},
		{name: "list", in: []any{"a", float64(1)}, want: []any{"a", float64(1)}},
		{name: "empty map", in: map[string]any{}, want: map[string]any{}},
		{name: "map", in: map[string]any{"kcal": float64(180)}, want: map[string]any{"kcal": float64(180)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromCty(ToCty(tt.in)))
		})
	}

	assert.True(t, ToCty(nil).IsNull())
	assert.Equal(t, cty.String, ToCty(struct{}{}).Type())
}
