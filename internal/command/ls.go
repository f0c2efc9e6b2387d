// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/expr"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/snapshot"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// lsTitle heads the document table when --titles is set.
const lsTitle = "READ"

func lsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "ls") {
		return nil
	}

	st, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeStore(ctx, st)

	s, err := loadDocuments(ctx, cmd, st)
	if err != nil {
		return err
	}

	w := stdout(cmd)

	// Documents have no fixed schema, so --schema lists the columns found.
	if cmd.Bool("schema") {
		for _, c := range s.Columns() {
			fmt.Fprintln(w, c)
		}
		return nil
	}

	if s.Len() == 0 && cmd.String("output") == "text" {
		fmt.Fprintln(w, "No documents.")
		return nil
	}

	body, err := snapshot.ToJSON(s)
	if err != nil {
		return err
	}

	if cmd.Bool("titles") {
		cmd.Metadata["header"] = lsTitle
		cmd.Metadata["footer"] = plural(s.Len(), "document")
	}

	output.SliceDiceSpit(*bytes.NewBuffer(body), documentAttrs(cmd, s.Columns()), cmd, "", w, nil)
	return nil
}

// loadDocuments fetches the documents selected by --limit, --match and
// store-side filters, then keeps the rows matching --where.
func loadDocuments(ctx context.Context, cmd *cli.Command, st store.Store) (tablediff.Snapshot, error) {
	opts, err := findOptions(ctx, cmd, findAugmenters...)
	if err != nil {
		return tablediff.Snapshot{}, err
	}

	s, err := store.Load(ctx, st, opts)
	if err != nil {
		return tablediff.Snapshot{}, store.Friendly(err, store.ContextOf(st, "find"))
	}
	log.Debugf("documents loaded: rows=%d cols=%v", s.Len(), s.Columns())

	return where(cmd, s)
}

// where keeps the rows of s matching --where.
func where(cmd *cli.Command, s tablediff.Snapshot) (tablediff.Snapshot, error) {
	src := cmd.String("where")
	if src == "" {
		return s, nil
	}
	e, err := expr.Compile(src)
	if err != nil {
		return tablediff.Snapshot{}, fmt.Errorf("--where: %w", err)
	}
	// Keep the full column list so an empty result still has a shape.
	out := e.Filter(s)
	out.Cols = s.Columns()
	return out, nil
}

func lsCommandBuilder(m meta.Meta) *cli.Command {
	flags := append(NewStoreFlags(m, "ls"),
		NewLimitFlag(m),
		newMatchFlag(),
		newWhereFlag(),
	)

	return report{
		name:      "ls",
		usage:     "list documents",
		usageText: "rsheet ls [options]",
		flags:     flags,
		action:    lsCommandAction,
		meta:      m,
	}.command()
}
