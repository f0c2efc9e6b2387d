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

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/storeutil"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// parseDocument turns KEY=VALUE arguments into a row, keeping argument order
// for the columns.
func parseDocument(args []string) (tablediff.Row, []string, error) {
	if len(args) == 0 {
		return nil, nil, errors.New("nothing to add, give KEY=VALUE pairs")
	}
	m, err := storeutil.ParseMatch(args)
	if err != nil {
		return nil, nil, err
	}

	var cols []string
	for _, a := range args {
		k, _, _ := strings.Cut(a, "=")
		k = strings.TrimSpace(k)
		if !contains(cols, k) {
			cols = append(cols, k)
		}
	}
	return tablediff.Row(m), cols, nil
}

func addCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "add") {
		return nil
	}

	idField := cmd.String("id")
	if idField == "" {
		return ErrNoIDField
	}

	row, cols, err := parseDocument(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if err := checkNewRow(row, idField, map[string]bool{}); err != nil {
		return err
	}

	st, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeStore(ctx, st)

	existing, err := store.Load(ctx, st, store.FindOptions{Limit: 1, Match: map[string]any{idField: row[idField]}})
	if err != nil {
		return store.Friendly(err, store.ContextOf(st, "find"))
	}
	if existing.Len() > 0 {
		return fmt.Errorf("%w: a document with %s=%s exists",
			tablediff.ErrDuplicateRowID, idField, output.InterfaceToString(row[idField]))
	}

	return commit(ctx, cmd, st, "add", changeSet{
		IDField:  idField,
		Cols:     cols,
		Inserted: []tablediff.Row{row},
	})
}

func addCommandBuilder(m meta.Meta) *cli.Command {
	flags := append(NewStoreFlags(m, "add"), NewJournalFlags(m)...)
	flags = append(flags,
		NewIDFlag(m, "add", "name"),
		newDryRunFlag(),
		newTldrFlag(),
	)

	return &cli.Command{
		Name:  "add",
		Usage: "insert a document",
		UsageText: `rsheet add [options] KEY=VALUE...

  Values that look like numbers, true, false or null are stored as such.`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  flags,
		Action: addCommandAction,
	}
}
