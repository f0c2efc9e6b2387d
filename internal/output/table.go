// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/attrs"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/config"
)

// nullCell is drawn for null and missing values.
const nullCell = "-"

// palette is the header and alternating row colors of a text table.
type palette struct {
	header, even, odd color.Color
}

// WriteTable draws rows as a borderless text table. Nothing is written for
// an empty set.
func WriteTable(w io.Writer, rows []map[string]interface{}, attrList attrs.AttrList, opts Options) {
	if len(rows) == 0 {
		return
	}

	var shown attrs.AttrList
	for _, a := range attrList {
		if a.Include {
			shown = append(shown, a)
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	evenStyle := lipgloss.NewStyle()
	oddStyle := lipgloss.NewStyle()
	if opts.Color {
		p := loadPalette("colors")
		headerStyle = headerStyle.Foreground(p.header)
		evenStyle = evenStyle.Foreground(p.even)
		oddStyle = oddStyle.Foreground(p.odd)
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, len(shown))
		for i, a := range shown {
			line[i] = InterfaceToString(r[a.OutputKey], nullCell)
		}
		cells = append(cells, line)
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := evenStyle
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 != 0:
				style = oddStyle
			}
			if col > 0 {
				style = style.PaddingLeft(opts.Padding)
			}
			if row != table.HeaderRow && shown[col].Bold() {
				style = style.Bold(true)
			}
			return style
		}).
		Rows(cells...)

	if opts.Titles {
		// A hidden header border still takes a line, so drop it.
		t = t.Headers(included(shown)...).BorderHeader(false)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}
	fmt.Fprintln(w, t)
	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// loadPalette reads colors from the config under key, falling back to
// defaults picked for the terminal's background.
func loadPalette(key string) palette {
	dark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	pick := func(name, light, darkDefault string) color.Color {
		if c, err := config.GetString(key + "." + name); err == nil {
			return lipgloss.Color(c)
		}
		if dark {
			return lipgloss.Color(darkDefault)
		}
		return lipgloss.Color(light)
	}
	return palette{
		header: pick("title", "#b08800", "#f6be00"),
		even:   pick("even", "#333333", "#ffffff"),
		odd:    pick("odd", "#0088a0", "#00c8f0"),
	}
}
