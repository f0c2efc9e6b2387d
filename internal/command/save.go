// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/snapshot"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// planSave lines the rows of file up with the stored documents by idField.
// Rows with a known id become updates limited to the keys the row carries; an
// explicit null removes a field. Rows with an unknown id are inserted and
// stored documents missing from file are left alone.
func planSave(file, stored tablediff.Snapshot, idField string) (changeSet, error) {
	if idField == "" {
		return changeSet{}, ErrNoIDField
	}

	byID := make(map[string]tablediff.Row, stored.Len())
	for _, row := range stored.Rows {
		if v, ok := row[idField]; ok && !tablediff.IsAbsent(v) {
			byID[output.InterfaceToString(v)] = row
		}
	}

	cols := file.Columns()
	current := tablediff.Snapshot{Cols: cols}
	previous := tablediff.Snapshot{Cols: cols}
	cs := changeSet{IDField: idField, Cols: cols}
	seen := map[string]bool{}

	for i, row := range file.Rows {
		id, ok := row[idField]
		if !ok || tablediff.IsAbsent(id) {
			return changeSet{}, fmt.Errorf("row %d: %s is required", i, idField)
		}
		k := output.InterfaceToString(id)
		if seen[k] {
			return changeSet{}, fmt.Errorf("row %d: %w: %s=%s", i, tablediff.ErrDuplicateRowID, idField, k)
		}
		seen[k] = true

		if prev, ok := byID[k]; ok {
			current.Rows = append(current.Rows, fillMissing(row, prev, cols))
			previous.Rows = append(previous.Rows, prev)
			continue
		}
		cs.Inserted = append(cs.Inserted, row)
	}

	records, err := tablediff.Diff(current, previous, tablediff.WithRowIDField(idField))
	if err != nil {
		return changeSet{}, err
	}
	cs.Changes = records
	return cs, nil
}

// fillMissing copies into row the stored values of columns row lacks, so
// that only the keys it carries can differ.
func fillMissing(row, stored tablediff.Row, cols []string) tablediff.Row {
	out := row.Clone()
	for _, c := range cols {
		if _, ok := out[c]; !ok {
			if v, ok := stored[c]; ok {
				out[c] = v
			}
		}
	}
	return out
}

func saveCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "save") {
		return nil
	}

	path := cmd.Args().First()
	if path == "" {
		return errors.New("save needs a FILE, or - for stdin")
	}
	file, err := snapshot.Load(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	st, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeStore(ctx, st)

	// Ids may live anywhere in the collection, so nothing is limited here.
	stored, err := store.Load(ctx, st, store.FindOptions{})
	if err != nil {
		return store.Friendly(err, store.ContextOf(st, "find"))
	}

	cs, err := planSave(file, stored, cmd.String("id"))
	if err != nil {
		return err
	}
	return commit(ctx, cmd, st, "save", cs)
}

func saveCommandBuilder(m meta.Meta) *cli.Command {
	flags := append(NewStoreFlags(m, "save"), NewJournalFlags(m)...)
	flags = append(flags,
		NewIDFlag(m, "save", "name"),
		newDryRunFlag(),
		newTldrFlag(),
	)

	return &cli.Command{
		Name:  "save",
		Usage: "write a JSON or YAML file of documents back to the store",
		UsageText: `rsheet save [options] FILE

  Rows are matched to documents by --id. Changed cells are updated and rows
  with an unknown id are inserted. Keys a row leaves out and documents
  missing from FILE are kept; a null value clears the field.`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  flags,
		Action: saveCommandAction,
	}
}
