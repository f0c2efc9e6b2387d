// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/journal"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// ErrConflict is returned when a cell an entry changed has been changed again
// since.
var ErrConflict = errors.New("documents changed since")

// undoTarget returns the entry named by id, or the latest undoable entry for
// the store.
func undoTarget(ctx context.Context, j *journal.Journal, key, id string) (journal.Entry, error) {
	if id == "" {
		e, err := j.Latest(ctx, key)
		if errors.Is(err, journal.ErrNotFound) {
			return e, fmt.Errorf("nothing to undo for %s", key)
		}
		return e, err
	}

	e, err := j.Get(ctx, id)
	if err != nil {
		return e, err
	}
	switch {
	case e.Store != key:
		return e, fmt.Errorf("entry %s belongs to %s", shortID(e.ID), e.Store)
	case e.Undoes != "":
		return e, fmt.Errorf("entry %s is itself an undo", shortID(e.ID))
	case e.UndoneAt != nil:
		return e, fmt.Errorf("entry %s was undone %s", shortID(e.ID), e.UndoneAt.Format("2006-01-02 15:04:05"))
	}
	return e, nil
}

// planUndo reverts e against the current documents. Every changed cell must
// still hold the value e wrote unless force is set.
func planUndo(e journal.Entry, current tablediff.Snapshot, force bool) (changeSet, error) {
	opts := tablediff.WithRowIDField(e.IDField)

	// Locates every row before anything is written.
	if _, err := tablediff.Apply(current, e.Changes, tablediff.Reverse, opts); err != nil {
		return changeSet{}, err
	}

	if !force {
		byID := map[string]tablediff.Row{}
		for _, row := range current.Rows {
			byID[output.InterfaceToString(row[e.IDField])] = row
		}
		var conflicts []string
		for _, rec := range e.Changes {
			row := byID[output.InterfaceToString(rec.RowID)]
			if !tablediff.Equal(row[rec.Column], rec.Current, true) {
				conflicts = append(conflicts, fmt.Sprintf("%s=%s %s is %s, expected %s", e.IDField,
					output.InterfaceToString(rec.RowID), rec.Column,
					output.InterfaceToString(row[rec.Column], "null"), output.InterfaceToString(rec.Current, "null")))
			}
		}
		if len(conflicts) > 0 {
			return changeSet{}, fmt.Errorf("%w: %s (--force reverts anyway)", ErrConflict, strings.Join(conflicts, "; "))
		}
	}

	return changeSet{IDField: e.IDField, Changes: tablediff.Invert(e.Changes)}, nil
}

func undoCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "undo") {
		return nil
	}
	if cmd.Bool("no-journal") {
		return errors.New("undo reads the journal, drop --no-journal")
	}

	st, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeStore(ctx, st)

	j, err := openJournal(cmd)
	if err != nil {
		return err
	}
	e, err := undoTarget(ctx, j, storeKey(st), cmd.Args().First())
	_ = j.Close()
	if err != nil {
		return err
	}
	log.Debugf("undo target: id=%s command=%s changes=%d inserted=%d", e.ID, e.Command, len(e.Changes), len(e.Inserted))

	current, err := store.Load(ctx, st, store.FindOptions{})
	if err != nil {
		return store.Friendly(err, store.ContextOf(st, "find"))
	}

	cs, err := planUndo(e, current, cmd.Bool("force"))
	if err != nil {
		return err
	}

	cs.Deleted = presentIDs(current, e)

	w := stdout(cmd)
	if cmd.Bool("dry-run") {
		fmt.Fprintf(w, "Would undo %s %s:\n", e.Command, shortID(e.ID))
		cs.print(w)
		for _, id := range cs.Deleted {
			fmt.Fprintf(w, "  - %s=%s\n", e.IDField, output.InterfaceToString(id))
		}
		return nil
	}

	applied, err := applyChanges(ctx, st, cs)
	if err != nil {
		recordPartial(ctx, cmd, st, "undo", applied)
		return err
	}

	undo, err := recordChanges(ctx, cmd, st, "undo", cs, e.ID)
	if err != nil {
		log.Warnf("journal: %v", err)
	}

	fmt.Fprintf(w, "Undid %s %s", e.Command, shortID(e.ID))
	if len(cs.Deleted) > 0 {
		fmt.Fprintf(w, ", removed %s", plural(len(cs.Deleted), "document"))
	}
	fmt.Fprint(w, ".")
	if undo.ID != "" {
		fmt.Fprintf(w, " Journal entry %s.", shortID(undo.ID))
	}
	fmt.Fprintln(w)
	return nil
}

// presentIDs returns the identifiers of the documents e inserted that current
// still holds. The others are reported and skipped.
func presentIDs(current tablediff.Snapshot, e journal.Entry) []any {
	var ids []any
	for _, row := range e.Inserted {
		id := row[e.IDField]
		found := false
		for _, cur := range current.Rows {
			if tablediff.Equal(cur[e.IDField], id, false) {
				found = true
				break
			}
		}
		if !found {
			log.Warnf("undo: %s=%v already gone", e.IDField, id)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func undoCommandBuilder(m meta.Meta) *cli.Command {
	flags := append(NewStoreFlags(m, "undo"), NewJournalFlags(m)...)
	flags = append(flags,
		newDryRunFlag(),
		&cli.BoolFlag{
			Name:  "force",
			Usage: "revert cells changed again since the entry",
		},
		newTldrFlag(),
	)

	return &cli.Command{
		Name:  "undo",
		Usage: "revert a journaled change",
		UsageText: `rsheet undo [options] [ID]

  Without ID the latest change to the store not yet undone is reverted.
  Documents the change inserted are deleted.`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  flags,
		Action: undoCommandAction,
	}
}
