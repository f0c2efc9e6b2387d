// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storeutil

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/snapshot"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// DefaultLimit is the number of documents fetched when no limit is given.
const DefaultLimit = 20

var (
	// ErrNoMatch is returned when an update or delete selects no document.
	ErrNoMatch = errors.New("no document matched")
	// ErrAmbiguous is returned when an update or delete selects more than one
	// document.
	ErrAmbiguous = errors.New("more than one document matched")
)

// FindOptions narrows a Find. Match holds field equality conditions applied
// by the store itself; a Limit <= 0 means no limit.
type FindOptions struct {
	Limit int64
	Match map[string]any
}

// Matches reports whether row satisfies every Match condition. Numbers
// compare by value and an absent field never matches.
func (o FindOptions) Matches(row tablediff.Row) bool {
	for k, want := range o.Match {
		got, ok := row[k]
		if !ok || !tablediff.Equal(got, want, false) {
			return false
		}
	}
	return true
}

// Find applies opts to a collection held in memory and renders the selected
// documents as a JSON array.
func Find(s tablediff.Snapshot, opts FindOptions) ([]byte, error) {
	out := tablediff.Snapshot{Cols: s.Columns()}
	for _, row := range s.Rows {
		if opts.Limit > 0 && int64(len(out.Rows)) >= opts.Limit {
			break
		}
		if opts.Matches(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return snapshot.ToJSON(out)
}

// Insert appends docs to s. Columns first seen in docs are added after the
// existing ones.
func Insert(s tablediff.Snapshot, docs tablediff.Snapshot) tablediff.Snapshot {
	out := s.Clone()
	cols := out.Columns()
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	for _, c := range docs.Columns() {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	for _, row := range docs.Rows {
		out.Rows = append(out.Rows, row.Clone())
	}
	out.Cols = cols
	return out
}

// Update sets fields on the single document whose idField equals idValue.
// A nil value in set clears the field to null. The key stays, so a column
// cleared in its only row is still part of the collection's next version.
func Update(s tablediff.Snapshot, idField string, idValue any, set tablediff.Row) (tablediff.Snapshot, error) {
	idx, err := locate(s, idField, idValue)
	if err != nil {
		return s, err
	}

	out := s.Clone()
	row := out.Rows[idx]
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		row[k] = set[k]
		if !contains(out.Cols, k) && len(out.Cols) > 0 {
			out.Cols = append(out.Cols, k)
		}
	}
	return out, nil
}

// Delete removes the single document whose idField equals idValue.
func Delete(s tablediff.Snapshot, idField string, idValue any) (tablediff.Snapshot, error) {
	idx, err := locate(s, idField, idValue)
	if err != nil {
		return s, err
	}
	out := s.Clone()
	out.Rows = append(out.Rows[:idx], out.Rows[idx+1:]...)
	return out, nil
}

// Change sets fields on the document whose identifier equals ID.
type Change struct {
	ID  any
	Set tablediff.Row
}

// Batch is everything one command writes: updates, then deletions, then new
// documents. Updates and Deletes locate documents by IDField.
type Batch struct {
	IDField string
	Updates []Change
	Deletes []any
	Inserts tablediff.Snapshot
}

// Empty reports whether b writes nothing.
func (b Batch) Empty() bool {
	return len(b.Updates) == 0 && len(b.Deletes) == 0 && b.Inserts.Len() == 0
}

// Apply runs b against s in memory. On error s is returned unchanged, so
// stores that write whole bodies apply a batch entirely or not at all.
func (b Batch) Apply(s tablediff.Snapshot) (tablediff.Snapshot, error) {
	out := s
	var err error
	for _, c := range b.Updates {
		if out, err = Update(out, b.IDField, c.ID, c.Set); err != nil {
			return s, err
		}
	}
	for _, id := range b.Deletes {
		if out, err = Delete(out, b.IDField, id); err != nil {
			return s, err
		}
	}
	if b.Inserts.Len() > 0 {
		out = Insert(out, b.Inserts)
	}
	return out, nil
}

// locate finds the one row whose idField equals idValue.
func locate(s tablediff.Snapshot, idField string, idValue any) (int, error) {
	idx := -1
	for i, row := range s.Rows {
		v, ok := row[idField]
		if !ok || !tablediff.Equal(v, idValue, false) {
			continue
		}
		if idx >= 0 {
			return -1, fmt.Errorf("%w: %s=%v", ErrAmbiguous, idField, idValue)
		}
		idx = i
	}
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s=%v", ErrNoMatch, idField, idValue)
	}
	return idx, nil
}

// ParseMatch turns "key=value" pairs into Match conditions. Values that look
// like JSON scalars (numbers, true, false, null) are decoded as such.
func ParseMatch(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid match %q: want key=value", p)
		}
		m[k] = ParseValue(v)
	}
	return m, nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
