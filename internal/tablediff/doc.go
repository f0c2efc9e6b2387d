// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tablediff compares two row-aligned table snapshots and reports
// per-cell changes.
//
// Rows are compared by position. Within a row, every column of the table is
// checked with Equal, which treats a missing key and nil as the same absent
// value. Absent cells equal each other but never equal a present
// value, so null against 0 or "" is a change while null against null is not.
//
// Diff is a pure function. It refuses snapshots whose column sets or row
// counts differ and, when an identifier field is designated, snapshots where
// that field is missing or repeated. Every refusal is an *Error that unwraps
// to one of the Err* sentinels.
package tablediff
