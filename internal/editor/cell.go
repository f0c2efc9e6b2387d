// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/storeutil"
)

// formatCell renders v for a cell at most width columns wide.
func formatCell(v any, width int) string {
	s := strings.ReplaceAll(output.InterfaceToString(v), "\n", " ")
	if width > 0 && runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return s
}

// parseCell converts edited text to a cell value. Text replacing a string
// stays a string, so "42" typed into a name is not turned into a number.
// Whole numbers keep a fractional column float and an int32 column int32.
// Empty text or "null" clears the cell.
func parseCell(text string, prev any) any {
	v := storeutil.ParseValue(text)
	if v == nil {
		return nil
	}
	i, isInt := v.(int64)
	switch p := prev.(type) {
	case string:
		if _, isString := v.(string); !isString {
			return strings.TrimSpace(text)
		}
	case float64:
		if isInt && p != math.Trunc(p) {
			return float64(i)
		}
	case int32:
		if isInt && i >= math.MinInt32 && i <= math.MaxInt32 {
			return int32(i)
		}
	}
	return v
}

// editText is the initial input text for a cell.
func editText(v any) string {
	return output.InterfaceToString(v)
}
