// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/log"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// Agg names an aggregation over the rows in a category.
type Agg string

const (
	Count Agg = "count"
	Sum   Agg = "sum"
	Mean  Agg = "mean"
)

// NoneLabel labels rows whose category column is absent.
const NoneLabel = "(none)"

var (
	ErrUnknownAgg = errors.New("unknown aggregation")
	ErrNoValue    = errors.New("aggregation needs a value column")
	ErrNoColumn   = errors.New("column not found")
)

// ParseAgg validates an aggregation name.
func ParseAgg(s string) (Agg, error) {
	switch a := Agg(strings.ToLower(strings.TrimSpace(s))); a {
	case Count, Sum, Mean:
		return a, nil
	case "":
		return Count, nil
	}
	return "", fmt.Errorf("%w: %q (want count, sum or mean)", ErrUnknownAgg, s)
}

// Bar is one category. Rows counts the rows that fed Value.
type Bar struct {
	Label string  `json:"label" yaml:"label" jsonapi:"attr,label"`
	Value float64 `json:"value" yaml:"value" jsonapi:"attr,value"`
	Rows  int     `json:"rows" yaml:"rows" jsonapi:"attr,rows"`
}

// Aggregate groups rows by the by column and reduces each group. Sum and mean
// read the value column and skip rows where it is not numeric. Bars are
// ordered by value, largest first, then by label.
func Aggregate(s tablediff.Snapshot, by, value string, agg Agg) ([]Bar, error) {
	if agg != Count && value == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoValue, agg)
	}
	cols := s.Columns()
	for _, c := range []string{by, value} {
		if c != "" && s.Len() > 0 && !contains(cols, c) {
			return nil, fmt.Errorf("%w: %s", ErrNoColumn, c)
		}
	}

	type acc struct {
		sum  float64
		rows int
	}
	groups := map[string]*acc{}
	var order []string

	for i, row := range s.Rows {
		label := output.InterfaceToString(row[by], NoneLabel)
		g, ok := groups[label]
		if !ok {
			g = &acc{}
			groups[label] = g
			order = append(order, label)
		}

		if agg == Count {
			g.rows++
			continue
		}
		n, ok := number(row[value])
		if !ok {
			log.Debugf("non-numeric value skipped: row=%d, column=%s, value=%v", i, value, row[value])
			continue
		}
		g.sum += n
		g.rows++
	}

	bars := make([]Bar, 0, len(order))
	for _, label := range order {
		g := groups[label]
		b := Bar{Label: label, Rows: g.rows}
		switch agg {
		case Count:
			b.Value = float64(g.rows)
		case Sum:
			b.Value = g.sum
		case Mean:
			if g.rows > 0 {
				b.Value = g.sum / float64(g.rows)
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownAgg, agg)
		}
		bars = append(bars, b)
	}

	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})
	return bars, nil
}

// RenderOptions shapes the bars. Width is the longest bar in cells.
type RenderOptions struct {
	Title string
	Width int
	Color bool
}

// Render draws one horizontal bar per category.
func Render(w io.Writer, bars []Bar, opts RenderOptions) {
	if opts.Width <= 0 {
		opts.Width = 40
	}

	// Plain text unless color was asked for, so piped output stays clean.
	label, bar := plain, plain
	if opts.Color {
		label = lipgloss.NewStyle().Bold(true).Render
		bar = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c8f0")).Render
	}

	if opts.Title != "" {
		fmt.Fprintln(w, label(opts.Title))
	}
	if len(bars) == 0 {
		return
	}

	labelWidth := 0
	highest := 0.0
	for _, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
		highest = max(highest, math.Abs(b.Value))
	}

	for _, b := range bars {
		n := 0
		if highest > 0 {
			n = int(math.Round(math.Abs(b.Value) / highest * float64(opts.Width)))
		}
		padded := b.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(b.Label))
		fmt.Fprintf(w, "%s  %s %s\n",
			label(padded),
			bar(strings.Repeat("█", n)),
			FormatValue(b.Value))
	}
}

// FormatValue renders whole numbers with thousands separators and others with
// two decimals.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}

func plain(strs ...string) string { return strings.Join(strs, " ") }

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
