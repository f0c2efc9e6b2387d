// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package editor is a terminal spreadsheet over a snapshot. Rows are paged,
// the first column stays put while the others scroll, and the selected
// cell's full value is shown below the table. Cells can be edited or
// cleared, rows appended, and rows filtered by substring.
package editor
