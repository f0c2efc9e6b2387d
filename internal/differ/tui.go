// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/versions"
)

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Accept key.Binding
	Quit   key.Binding
}

func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Accept, k.Quit}
}

func (k pickerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

var keys = pickerKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "compare")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// SelectVersions lets the user mark two versions and returns them most
// recent first, as current and previous. Nil means the user quit.
func SelectVersions(items []versions.Version, opts ...tea.ProgramOption) ([]versions.Version, error) {
	final, err := tea.NewProgram(model{items: items, help: help.New()}, opts...).Run()
	if err != nil {
		return nil, err
	}
	return final.(model).result(), nil
}

// model lists versions with a cursor. selected holds up to two item indexes
// in the order they were marked.
type model struct {
	items    []versions.Version
	cursor   int
	selected []int
	done     bool
	help     help.Model
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(k, keys.Quit):
		m.selected = nil
		return m, tea.Quit
	case key.Matches(k, keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(k, keys.Down):
		m.cursor = max(min(m.cursor+1, len(m.items)-1), 0)
	case key.Matches(k, keys.Toggle) && len(m.items) > 0:
		m.toggle(m.cursor)
	case key.Matches(k, keys.Accept) && len(m.selected) == 2:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// toggle unmarks item i, or marks it while fewer than two are marked.
func (m *model) toggle(i int) {
	if at := slices.Index(m.selected, i); at >= 0 {
		m.selected = slices.Delete(m.selected, at, at+1)
		return
	}
	if len(m.selected) < 2 {
		m.selected = append(m.selected, i)
	}
}

func (m model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pick two versions to compare (%d of 2)\n\n", len(m.selected))
	for i, v := range m.items {
		pointer, mark := " ", " "
		if i == m.cursor {
			pointer = ">"
		}
		if slices.Contains(m.selected, i) {
			mark = "x"
		}
		fmt.Fprintf(&b, "%s [%s] %4d  %-36s  %s  %s\n", pointer, mark, v.Serial, v.ID,
			v.Time.Format(time.RFC3339), humanize.Time(v.Time))
	}
	b.WriteString("\n" + m.help.View(keys) + "\n")
	return b.String()
}

// result is the accepted pair, highest serial first.
func (m model) result() []versions.Version {
	if !m.done || len(m.selected) != 2 {
		return nil
	}
	out := []versions.Version{m.items[m.selected[0]], m.items[m.selected[1]]}
	slices.SortStableFunc(out, func(a, b versions.Version) int {
		return b.Serial - a.Serial
	})
	return out
}
