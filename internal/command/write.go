// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/journal"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// ErrNoIDField is returned by writing commands run without --id.
var ErrNoIDField = errors.New("writing needs an identifier field, set --id")

// changeSet is what a writing command applies to a store: cell updates
// located by IDField, deletions by identifier, then new documents.
type changeSet struct {
	IDField  string
	Cols     []string
	Changes  []tablediff.ChangeRecord
	Deleted  []any
	Inserted []tablediff.Row
}

func (cs changeSet) empty() bool {
	return len(cs.Changes) == 0 && len(cs.Deleted) == 0 && len(cs.Inserted) == 0
}

// summary renders "2 changes in 1 document, 1 new document".
func (cs changeSet) summary() string {
	var parts []string
	if len(cs.Changes) > 0 {
		parts = append(parts, fmt.Sprintf("%s in %s",
			plural(len(cs.Changes), "change"), plural(len(groupUpdates(cs.Changes)), "document")))
	}
	if len(cs.Deleted) > 0 {
		parts = append(parts, plural(len(cs.Deleted), "deleted document"))
	}
	if len(cs.Inserted) > 0 {
		parts = append(parts, plural(len(cs.Inserted), "new document"))
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}

// print lists the set one line per change.
func (cs changeSet) print(w io.Writer) {
	for _, u := range groupUpdates(cs.Changes) {
		for _, rec := range u.records {
			fmt.Fprintf(w, "  %s=%s %s: %s -> %s\n", cs.IDField,
				output.InterfaceToString(u.id), rec.Column,
				output.InterfaceToString(rec.Previous, "null"), output.InterfaceToString(rec.Current, "null"))
		}
	}
	for _, row := range cs.Inserted {
		doc, err := json.Marshal(row)
		if err != nil {
			doc = []byte(fmt.Sprint(row))
		}
		fmt.Fprintf(w, "  + %s\n", doc)
	}
}

// rowUpdate gathers the records touching one document.
type rowUpdate struct {
	id      any
	set     tablediff.Row
	records []tablediff.ChangeRecord
}

// groupUpdates folds records into one update per document, in order of first
// appearance. A later record for the same cell wins.
func groupUpdates(records []tablediff.ChangeRecord) []rowUpdate {
	var updates []rowUpdate
	index := map[string]int{}
	for _, rec := range records {
		k := output.InterfaceToString(rec.RowID)
		i, ok := index[k]
		if !ok {
			i = len(updates)
			index[k] = i
			updates = append(updates, rowUpdate{id: rec.RowID, set: tablediff.Row{}})
		}
		updates[i].set[rec.Column] = rec.Current
		updates[i].records = append(updates[i].records, rec)
	}
	return updates
}

// applyChanges writes cs to st and returns the part of cs the store holds
// afterwards. A Batcher takes the whole set as one version. Other stores are
// written one document at a time, updates first so an insert never shadows
// the document an update is meant for, and a failure leaves the updates
// before it in place.
func applyChanges(ctx context.Context, st store.Store, cs changeSet) (changeSet, error) {
	updates := groupUpdates(cs.Changes)
	applied := changeSet{IDField: cs.IDField, Cols: cs.Cols}

	if b, ok := st.(store.Batcher); ok {
		batch := store.Batch{
			IDField: cs.IDField,
			Deletes: cs.Deleted,
			Inserts: tablediff.New(cs.Cols, cs.Inserted...),
		}
		for _, u := range updates {
			batch.Updates = append(batch.Updates, store.Change{ID: u.id, Set: u.set})
		}
		log.Debugf("batch: updates=%d deletes=%d inserts=%d", len(batch.Updates), len(batch.Deletes), batch.Inserts.Len())
		if err := b.Apply(ctx, batch); err != nil {
			return applied, store.Friendly(err, store.ContextOf(st, "write"))
		}
		return cs, nil
	}

	for _, u := range updates {
		log.Debugf("update: %s=%v set=%v", cs.IDField, u.id, u.set)
		if err := st.Update(ctx, cs.IDField, u.id, u.set); err != nil {
			return applied, store.Friendly(err, store.ContextOf(st, fmt.Sprintf("update %s=%v", cs.IDField, u.id)))
		}
		applied.Changes = append(applied.Changes, u.records...)
	}

	for _, id := range cs.Deleted {
		log.Debugf("delete: %s=%v", cs.IDField, id)
		if err := st.Delete(ctx, cs.IDField, id); err != nil {
			return applied, store.Friendly(err, store.ContextOf(st, fmt.Sprintf("delete %s=%v", cs.IDField, id)))
		}
		applied.Deleted = append(applied.Deleted, id)
	}

	if len(cs.Inserted) > 0 {
		log.Debugf("insert: %d documents", len(cs.Inserted))
		docs := tablediff.New(cs.Cols, cs.Inserted...)
		if err := st.Insert(ctx, docs); err != nil {
			return applied, store.Friendly(err, store.ContextOf(st, "insert"))
		}
		applied.Inserted = cs.Inserted
	}
	return applied, nil
}

// recordPartial journals what a failed write left in the store, so undo can
// still revert it.
func recordPartial(ctx context.Context, cmd *cli.Command, st store.Store, command string, applied changeSet) {
	if applied.empty() {
		return
	}
	e, err := recordChanges(ctx, cmd, st, command, applied, "")
	if err != nil {
		log.Warnf("journal: %v", err)
		return
	}
	if e.ID != "" {
		fmt.Fprintf(stdout(cmd), "Partly saved %s. Journal entry %s.\n", applied.summary(), shortID(e.ID))
	}
}

// recordChanges journals cs unless --no-journal is set. The entry is zero
// when nothing was recorded.
func recordChanges(ctx context.Context, cmd *cli.Command, st store.Store, command string, cs changeSet, undoes string) (journal.Entry, error) {
	if cmd.Bool("no-journal") {
		return journal.Entry{}, nil
	}

	j, err := openJournal(cmd)
	if err != nil {
		return journal.Entry{}, err
	}
	defer func() { _ = j.Close() }()

	e, err := j.Record(ctx, journal.Entry{
		Store:    storeKey(st),
		Command:  command,
		IDField:  cs.IDField,
		Changes:  cs.Changes,
		Inserted: cs.Inserted,
		Undoes:   undoes,
	})
	if err != nil {
		return journal.Entry{}, err
	}

	if undoes != "" {
		if err := j.MarkUndone(ctx, undoes, e.Time); err != nil {
			return e, err
		}
	}
	return e, nil
}

// commit applies and journals cs, or only prints it under --dry-run.
func commit(ctx context.Context, cmd *cli.Command, st store.Store, command string, cs changeSet) error {
	w := stdout(cmd)
	if cs.empty() {
		fmt.Fprintln(w, "No changes.")
		return nil
	}

	if cmd.Bool("dry-run") {
		fmt.Fprintf(w, "Would write %s:\n", cs.summary())
		cs.print(w)
		return nil
	}

	applied, err := applyChanges(ctx, st, cs)
	if err != nil {
		recordPartial(ctx, cmd, st, command, applied)
		return err
	}

	e, err := recordChanges(ctx, cmd, st, command, cs, "")
	if err != nil {
		// The store already holds the changes, so this is only a warning.
		log.Warnf("journal: %v", err)
	}

	fmt.Fprintf(w, "Saved %s.", cs.summary())
	if e.ID != "" {
		fmt.Fprintf(w, " Journal entry %s.", shortID(e.ID))
	}
	fmt.Fprintln(w)
	return nil
}

// planEdit turns an edited copy of before into a changeSet. The last added
// rows of after are new documents; the rest line up with before.
func planEdit(before, after tablediff.Snapshot, added int, idField string) (changeSet, error) {
	if idField == "" {
		return changeSet{}, ErrNoIDField
	}
	n := after.Len() - added
	if n != before.Len() {
		return changeSet{}, fmt.Errorf("edited copy has %d original rows, expected %d", n, before.Len())
	}

	cols := after.Columns()
	current := tablediff.Snapshot{Cols: cols, Rows: after.Rows[:n]}
	previous := tablediff.Snapshot{Cols: cols, Rows: before.Rows}

	records, err := tablediff.Diff(current, previous, tablediff.WithRowIDField(idField))
	if err != nil {
		return changeSet{}, err
	}

	cs := changeSet{IDField: idField, Cols: cols, Changes: records}
	seen := map[string]bool{}
	for _, row := range before.Rows {
		seen[output.InterfaceToString(row[idField])] = true
	}
	for i, row := range after.Rows[n:] {
		if blank(row) {
			continue
		}
		if err := checkNewRow(row, idField, seen); err != nil {
			return changeSet{}, fmt.Errorf("new row %d: %w", i+1, err)
		}
		cs.Inserted = append(cs.Inserted, row)
	}
	return cs, nil
}

// checkNewRow requires a unique identifier on a document about to be
// inserted, since undo deletes it by that value.
func checkNewRow(row tablediff.Row, idField string, seen map[string]bool) error {
	id, ok := row[idField]
	if !ok || tablediff.IsAbsent(id) {
		return fmt.Errorf("%s is required", idField)
	}
	k := output.InterfaceToString(id)
	if seen[k] {
		return fmt.Errorf("%w: %s=%s", tablediff.ErrDuplicateRowID, idField, k)
	}
	seen[k] = true
	return nil
}

func blank(row tablediff.Row) bool {
	for _, v := range row {
		if !tablediff.IsAbsent(v) {
			return false
		}
	}
	return true
}
