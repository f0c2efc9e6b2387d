// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tablediff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"
)

var (
	// ErrFieldNotFound is returned when the row identifier field is missing
	// from a row.
	ErrFieldNotFound = errors.New("field not found")
	// ErrShapeMismatch is returned when the snapshots' column sets differ.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrLengthMismatch is returned when the snapshots' row counts differ.
	ErrLengthMismatch = errors.New("row count mismatch")
	// ErrDuplicateRowID is returned when two rows of a snapshot share an
	// identifier value.
	ErrDuplicateRowID = errors.New("duplicate row id")
)

// Error carries a precondition failure and where it was found. It unwraps to
// one of the Err* sentinels.
type Error struct {
	Kind     error
	Snapshot string
	Row      int
	Column   string
	Detail   string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Snapshot != "" {
		fmt.Fprintf(&b, " in %s snapshot", e.Snapshot)
	}
	if e.Row >= 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": %q", e.Column)
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

type options struct {
	idField            string
	absentEqualsAbsent bool
}

// Option customizes Diff and Apply.
type Option func(*options)

// WithRowIDField names the field used to identify rows in the output. The
// field must be present and unique in every row of both snapshots.
func WithRowIDField(field string) Option {
	return func(o *options) { o.idField = field }
}

// WithAbsentEqualsAbsent controls whether two absent cells compare equal.
// It defaults to true.
func WithAbsentEqualsAbsent(b bool) Option {
	return func(o *options) { o.absentEqualsAbsent = b }
}

func newOptions(opts []Option) options {
	o := options{absentEqualsAbsent: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Diff compares current against previous row by row and returns one record
// per changed cell, in row order and then column order. It fails when the
// snapshots do not share a column set or row count, or when the identifier
// field is missing or repeated.
func Diff(current, previous Snapshot, opts ...Option) ([]ChangeRecord, error) {
	o := newOptions(opts)

	columns, err := sharedColumns(current, previous)
	if err != nil {
		return nil, err
	}

	if current.Len() != previous.Len() {
		return nil, &Error{
			Kind:   ErrLengthMismatch,
			Row:    -1,
			Detail: fmt.Sprintf("current has %d rows, previous has %d", current.Len(), previous.Len()),
		}
	}

	if o.idField != "" {
		if err := checkRowIDs(current, "current", o.idField); err != nil {
			return nil, err
		}
		if err := checkRowIDs(previous, "previous", o.idField); err != nil {
			return nil, err
		}
	}

	var records []ChangeRecord
	for i, cur := range current.Rows {
		prev := previous.Rows[i]
		for _, col := range columns {
			if Equal(cur[col], prev[col], o.absentEqualsAbsent) {
				continue
			}
			rec := ChangeRecord{
				Row:      i,
				Column:   col,
				Current:  cur[col],
				Previous: prev[col],
			}
			if o.idField != "" {
				rec.RowID = cur[o.idField]
			}
			records = append(records, rec)
		}
	}

	log.Debugf("diff: rows=%d cols=%d changes=%d", current.Len(), len(columns), len(records))
	return records, nil
}

// sharedColumns returns current's column order after checking that previous
// has exactly the same set of columns.
func sharedColumns(current, previous Snapshot) ([]string, error) {
	cur := current.Columns()
	prev := previous.Columns()

	inPrev := make(map[string]bool, len(prev))
	for _, c := range prev {
		inPrev[c] = true
	}
	inCur := make(map[string]bool, len(cur))
	for _, c := range cur {
		inCur[c] = true
	}

	var added, removed []string
	for _, c := range cur {
		if !inPrev[c] {
			added = append(added, c)
		}
	}
	for _, c := range prev {
		if !inCur[c] {
			removed = append(removed, c)
		}
	}

	if len(added) > 0 || len(removed) > 0 {
		var parts []string
		if len(added) > 0 {
			parts = append(parts, "only in current: "+strings.Join(added, ","))
		}
		if len(removed) > 0 {
			parts = append(parts, "only in previous: "+strings.Join(removed, ","))
		}
		return nil, &Error{Kind: ErrShapeMismatch, Row: -1, Detail: strings.Join(parts, "; ")}
	}

	return cur, nil
}

// checkRowIDs verifies that field is present, non-null and unique in every
// row of s.
func checkRowIDs(s Snapshot, name, field string) error {
	seen := make(map[string]int, s.Len())
	for i, row := range s.Rows {
		v, ok := row[field]
		if !ok || IsAbsent(v) {
			return &Error{Kind: ErrFieldNotFound, Snapshot: name, Row: i, Column: field}
		}
		key := idKey(v)
		if first, dup := seen[key]; dup {
			return &Error{
				Kind:     ErrDuplicateRowID,
				Snapshot: name,
				Row:      i,
				Column:   field,
				Detail:   fmt.Sprintf("value %v already used by row %d", v, first),
			}
		}
		seen[key] = i
	}
	return nil
}
