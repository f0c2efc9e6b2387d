// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/log"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

const (
	DefaultPageSize  = 10
	DefaultCellWidth = 24
)

// Options shapes the editor. Zero values take the defaults.
type Options struct {
	PageSize  int
	CellWidth int
	// Bold names the columns rendered bold. Nil means "name".
	Bold  []string
	Title string
	// IDField is read-only on existing rows and auto-numbered on added rows
	// when every existing id is numeric.
	IDField string
}

// Result is what the user left the editor with. The last Added rows of
// Snapshot are new; the rest line up with the input by position.
type Result struct {
	Snapshot tablediff.Snapshot
	Save     bool
	Added    int
}

// Run opens the editor on a copy of s and blocks until the user saves or
// quits.
func Run(s tablediff.Snapshot, opts Options, progOpts ...tea.ProgramOption) (Result, error) {
	p := tea.NewProgram(newModel(s, opts), progOpts...)
	m, err := p.Run()
	if err != nil {
		return Result{}, err
	}
	return m.(model).result(), nil
}

type mode int

const (
	browsing mode = iota
	editing
	filtering
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = cellStyle.Reverse(true)
	statusStyle   = lipgloss.NewStyle().Faint(true)
)

type model struct {
	opts     Options
	snap     tablediff.Snapshot
	cols     []string
	original int

	// visible holds indexes into snap.Rows that pass the filter; row is an
	// index into visible.
	visible []int
	row     int
	col     int
	colOff  int

	pager paginator.Model
	input textinput.Model
	mode  mode

	filter      string
	dirty       bool
	save        bool
	confirmQuit bool
	added       int
	width       int
	status      string

	keys keyMap
	help help.Model
}

func newModel(s tablediff.Snapshot, opts Options) model {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = DefaultCellWidth
	}
	if opts.Bold == nil {
		opts.Bold = []string{"name"}
	}

	snap := s.Clone()
	snap.Cols = append([]string(nil), s.Columns()...)

	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.PerPage = opts.PageSize

	input := textinput.New()
	input.Prompt = "> "

	m := model{
		opts:     opts,
		snap:     snap,
		cols:     snap.Cols,
		original: snap.Len(),
		colOff:   1,
		pager:    pager,
		input:    input,
		keys:     defaultKeys(),
		help:     help.New(),
	}
	m.refilter()
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.scrollColumns()
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case editing:
			return m.updateEditing(msg)
		case filtering:
			return m.updateFiltering(msg)
		default:
			return m.updateBrowsing(msg)
		}
	}
	return m, nil
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	quitting := key.Matches(msg, m.keys.Quit)
	if !quitting {
		m.confirmQuit = false
	}

	switch {
	case quitting:
		if msg.String() == "esc" && m.filter != "" {
			m.filter = ""
			m.refilter()
			return m, nil
		}
		if m.dirty && !m.confirmQuit && msg.String() != "ctrl+c" {
			m.confirmQuit = true
			m.status = "unsaved changes, press q again to discard them"
			return m, nil
		}
		m.save = false
		return m, tea.Quit
	case key.Matches(msg, m.keys.Save):
		m.save = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveRow(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveRow(1)
	case key.Matches(msg, m.keys.PrevPage):
		m.moveRow(-m.opts.PageSize)
	case key.Matches(msg, m.keys.NextPage):
		m.moveRow(m.opts.PageSize)
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
		m.scrollColumns()
	case key.Matches(msg, m.keys.Right):
		if m.col < len(m.cols)-1 {
			m.col++
		}
		m.scrollColumns()
	case key.Matches(msg, m.keys.Edit):
		if !m.editable() {
			return m, nil
		}
		m.mode = editing
		m.input.SetValue(editText(m.cell()))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Null):
		if m.editable() {
			m.setCell(nil)
		}
	case key.Matches(msg, m.keys.Add):
		m.addRow()
	case key.Matches(msg, m.keys.Filter):
		m.mode = filtering
		m.input.SetValue(m.filter)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.setCell(parseCell(m.input.Value(), m.cell()))
		m.mode = browsing
		m.input.Blur()
		return m, nil
	case "esc", "ctrl+c":
		m.mode = browsing
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = browsing
		m.input.Blur()
		return m, nil
	case "esc", "ctrl+c":
		m.filter = ""
		m.refilter()
		m.mode = browsing
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter = m.input.Value()
	m.refilter()
	return m, cmd
}

// editable reports whether the selected cell may change. The id of a row
// that came from the store is fixed since it locates the document on save.
func (m *model) editable() bool {
	if len(m.visible) == 0 || len(m.cols) == 0 {
		return false
	}
	if m.cols[m.col] == m.opts.IDField && m.visible[m.row] < m.original {
		m.status = m.opts.IDField + " is read-only"
		return false
	}
	return true
}

func (m model) cell() any {
	if len(m.visible) == 0 || len(m.cols) == 0 {
		return nil
	}
	return m.snap.Rows[m.visible[m.row]][m.cols[m.col]]
}

func (m *model) setCell(v any) {
	row := m.snap.Rows[m.visible[m.row]]
	c := m.cols[m.col]
	if tablediff.Equal(row[c], v, true) {
		return
	}
	if v == nil {
		delete(row, c)
	} else {
		row[c] = v
	}
	m.dirty = true
	log.Debugf("cell set: row=%d, col=%s, value=%v", m.visible[m.row], c, v)
}

// addRow appends an empty row, clears the filter so the row shows, and
// selects it.
func (m *model) addRow() {
	row := tablediff.Row{}
	if id, ok := m.nextID(); ok {
		row[m.opts.IDField] = id
	}
	m.snap.Rows = append(m.snap.Rows, row)
	m.added++
	m.dirty = true

	m.filter = ""
	m.refilter()
	m.row = len(m.visible) - 1
	m.pager.Page = m.row / m.opts.PageSize
	m.status = fmt.Sprintf("row %d added", m.snap.Len())
}

// nextID numbers a new row one past the largest numeric id. Any non-numeric
// id leaves the new row's id for the user to fill in.
func (m model) nextID() (float64, bool) {
	if m.opts.IDField == "" || !slices.Contains(m.cols, m.opts.IDField) {
		return 0, false
	}
	var highest float64
	for _, row := range m.snap.Rows {
		switch v := row[m.opts.IDField].(type) {
		case nil:
		case float64:
			highest = max(highest, v)
		case int:
			highest = max(highest, float64(v))
		case int32:
			highest = max(highest, float64(v))
		case int64:
			highest = max(highest, float64(v))
		default:
			return 0, false
		}
	}
	return highest + 1, true
}

func (m *model) moveRow(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.row = min(max(m.row+delta, 0), len(m.visible)-1)
	m.pager.Page = m.row / m.opts.PageSize
}

// refilter rebuilds the visible rows from the filter, a case insensitive
// substring of any cell.
func (m *model) refilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter))
	m.visible = nil
	for i, row := range m.snap.Rows {
		if needle == "" || rowContains(row, m.cols, needle) {
			m.visible = append(m.visible, i)
		}
	}
	m.pager.SetTotalPages(len(m.visible))
	m.row = min(m.row, max(len(m.visible)-1, 0))
	m.pager.Page = m.row / m.opts.PageSize
}

func rowContains(row tablediff.Row, cols []string, needle string) bool {
	for _, c := range cols {
		if strings.Contains(strings.ToLower(output.InterfaceToString(row[c])), needle) {
			return true
		}
	}
	return false
}

// shownColumns is how many scrolling columns fit beside the fixed first one.
func (m model) shownColumns() int {
	scrolling := len(m.cols) - 1
	if m.width <= 0 || scrolling <= 0 {
		return max(scrolling, 0)
	}
	per := m.opts.CellWidth + 3
	return min(max((m.width-per)/per, 1), scrolling)
}

func (m *model) scrollColumns() {
	n := m.shownColumns()
	if n == 0 {
		m.colOff = 1
		return
	}
	if m.col > 0 && m.col < m.colOff {
		m.colOff = m.col
	}
	if m.col >= m.colOff+n {
		m.colOff = m.col - n + 1
	}
	m.colOff = min(max(m.colOff, 1), len(m.cols)-n)
}

// columnIndexes lists the displayed columns: the first column, then the
// scrolled window.
func (m model) columnIndexes() []int {
	if len(m.cols) == 0 {
		return nil
	}
	idx := []int{0}
	n := m.shownColumns()
	for i := m.colOff; i < m.colOff+n && i < len(m.cols); i++ {
		idx = append(idx, i)
	}
	return idx
}

func (m model) View() string {
	var b strings.Builder
	if m.opts.Title != "" {
		b.WriteString(titleStyle.Render(m.opts.Title))
		b.WriteString("\n")
	}

	shown := m.columnIndexes()
	bold := make([]bool, len(shown))
	headers := make([]string, len(shown))
	for i, c := range shown {
		headers[i] = m.cols[c]
		bold[i] = slices.Contains(m.opts.Bold, m.cols[c])
	}

	start, end := m.pager.GetSliceBounds(len(m.visible))
	rows := make([][]string, 0, end-start)
	for _, r := range m.visible[start:end] {
		cells := make([]string, len(shown))
		for i, c := range shown {
			cells[i] = formatCell(m.snap.Rows[r][m.cols[c]], m.opts.CellWidth)
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			if start+row == m.row && col < len(shown) && shown[col] == m.col {
				style = selectedStyle
			}
			if col < len(bold) && bold[col] {
				style = style.Bold(true)
			}
			return style
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s  %d of %d rows", m.pager.View(), len(m.visible), m.snap.Len())
	if m.filter != "" {
		fmt.Fprintf(&b, "  filter: %q", m.filter)
	}
	if m.dirty {
		b.WriteString("  [modified]")
	}
	b.WriteString("\n")

	switch m.mode {
	case editing:
		fmt.Fprintf(&b, "edit %s\n%s\n", m.cols[m.col], m.input.View())
	case filtering:
		fmt.Fprintf(&b, "filter\n%s\n", m.input.View())
	default:
		b.WriteString(statusStyle.Render(m.statusLine()))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// statusLine shows a pending message or the full value of the selected
// cell, which the table may have truncated.
func (m model) statusLine() string {
	if m.status != "" {
		return m.status
	}
	if len(m.visible) == 0 || len(m.cols) == 0 {
		return "no rows"
	}
	return fmt.Sprintf("%s: %s", m.cols[m.col], output.InterfaceToString(m.cell(), "null"))
}

func (m model) result() Result {
	return Result{Snapshot: m.snap, Save: m.save, Added: m.added}
}
