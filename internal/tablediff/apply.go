// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tablediff

import "fmt"

// Direction selects which side of a change record Apply writes.
type Direction int

const (
	// Forward writes each record's current value.
	Forward Direction = iota
	// Reverse writes each record's previous value.
	Reverse
)

// Apply replays records onto a copy of s and returns it. Rows are located by
// identifier value when WithRowIDField is given and the record carries one,
// otherwise by position. Writing an absent value removes the key.
func Apply(s Snapshot, records []ChangeRecord, dir Direction, opts ...Option) (Snapshot, error) {
	o := newOptions(opts)
	out := s.Clone()

	var byID map[string]int
	if o.idField != "" {
		byID = make(map[string]int, out.Len())
		for i, row := range out.Rows {
			if v, ok := row[o.idField]; ok && !IsAbsent(v) {
				byID[idKey(v)] = i
			}
		}
	}

	for _, rec := range records {
		idx := rec.Row
		if byID != nil && rec.RowID != nil {
			i, ok := byID[idKey(rec.RowID)]
			if !ok {
				return Snapshot{}, &Error{
					Kind:   ErrFieldNotFound,
					Row:    rec.Row,
					Column: o.idField,
					Detail: fmt.Sprintf("no row with id %v", rec.RowID),
				}
			}
			idx = i
		}
		if idx < 0 || idx >= out.Len() {
			return Snapshot{}, &Error{
				Kind:   ErrLengthMismatch,
				Row:    idx,
				Detail: fmt.Sprintf("snapshot has %d rows", out.Len()),
			}
		}

		value := rec.Current
		if dir == Reverse {
			value = rec.Previous
		}
		if IsAbsent(value) {
			delete(out.Rows[idx], rec.Column)
		} else {
			out.Rows[idx][rec.Column] = value
		}
	}

	return out, nil
}
