// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/versions"
)

func recipes(rating float64) tablediff.Snapshot {
	return tablediff.New([]string{"id", "name", "rating"},
		tablediff.Row{"id": float64(1), "name": "Tomato Soup", "rating": float64(5)},
		tablediff.Row{"id": float64(2), "name": "Beef Stew", "rating": rating},
	)
}

func TestDeep_Identical(t *testing.T) {
	var buf bytes.Buffer
	changed, err := Deep(&buf, recipes(3), recipes(3), false)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "The snapshots are identical.\n", buf.String())
}

func TestDeep_Modified(t *testing.T) {
	var buf bytes.Buffer
	changed, err := Deep(&buf, recipes(4), recipes(3), false)
	require.NoError(t, err)
	assert.True(t, changed)

	var minus, plus bool
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "-") && strings.Contains(line, "rating") {
			minus = true
		}
		if strings.HasPrefix(line, "+") && strings.Contains(line, "rating") {
			plus = true
		}
	}
	assert.True(t, minus, "previous rating shown as removed:\n%s", buf.String())
	assert.True(t, plus, "current rating shown as added:\n%s", buf.String())
	assert.NotContains(t, buf.String(), "\x1b[", "no color codes")
}

func TestDeep_RowAdded(t *testing.T) {
	cur := recipes(3)
	cur.Rows = append(cur.Rows, tablediff.Row{"id": float64(3), "name": "Pad Thai"})

	var buf bytes.Buffer
	changed, err := Deep(&buf, cur, recipes(3), false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, buf.String(), "Pad Thai")
}

func TestSpecs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     []string
		wantPick bool
	}{
		{name: "none", args: nil, want: []string{"~0", "~1"}},
		{name: "one", args: []string{"edited.json"}, want: []string{"edited.json", "~0"}},
		{name: "pick", args: []string{"+"}, wantPick: true},
		{name: "two", args: []string{"~2", "~5"}, want: []string{"~2", "~5"}},
		{name: "head", args: []string{"HEAD", "head~3"}, want: []string{"~0", "~3"}},
		{name: "head not numeric", args: []string{"HEAD~x"}, want: []string{"HEAD~x", "~0"}},
		{name: "extra", args: []string{"3", "2", "1"}, want: []string{"3", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pick := Specs(tt.args)
			assert.Equal(t, tt.wantPick, pick)
			assert.Equal(t, tt.want, got)
		})
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, keys ...string) model {
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m.(model)
}

func items() []versions.Version {
	now := time.Now()
	return versions.Number([]versions.Version{
		{ID: "recipes.json", Time: now},
		{ID: "recipes.json.b.bak", Time: now.Add(-time.Hour)},
		{ID: "recipes.json.a.bak", Time: now.Add(-2 * time.Hour)},
	})
}

func TestModel_SelectTwo(t *testing.T) {
	m := press(model{items: items()}, "down", "down", " ", "up", "up", " ", "enter")

	got := m.result()
	require.Len(t, got, 2)
	assert.Equal(t, "recipes.json", got[0].ID, "most recent first")
	assert.Equal(t, "recipes.json.a.bak", got[1].ID)
}

func TestModel_Toggle(t *testing.T) {
	m := press(model{items: items()}, " ", " ")
	assert.Empty(t, m.selected)

	m = press(model{items: items()}, " ", "down", " ", "down", " ")
	assert.Len(t, m.selected, 2, "at most two selected")

	m = press(model{items: items()}, " ", "enter")
	assert.Nil(t, m.result(), "enter needs two")

	m = press(model{items: items()}, "up", "x", "j", "j", "j", "x", "enter")
	assert.Equal(t, []int{0, 2}, m.selected, "cursor stays in range")
	require.Len(t, m.result(), 2)

	m = press(model{}, " ", "down", "enter")
	assert.Nil(t, m.result())
}

func TestModel_Quit(t *testing.T) {
	m := press(model{items: items()}, " ", "down", " ", "esc")
	assert.Nil(t, m.result())
}

func TestModel_View(t *testing.T) {
	m := press(model{items: items()}, " ")
	view := m.View()
	assert.Contains(t, view, "Pick two versions to compare (1 of 2)")
	assert.Contains(t, view, "> [x]    3  recipes.json ")
	assert.Contains(t, view, "[ ]    2  recipes.json.b.bak")
	assert.Contains(t, view, "toggle")
}
