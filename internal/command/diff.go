// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/differ"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/snapshot"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// ChangeRow is one cell change as emitted by diff and log.
type ChangeRow struct {
	ID       string `jsonapi:"primary,changes"`
	Op       string `jsonapi:"attr,op"`
	Row      int    `jsonapi:"attr,row"`
	IDValue  any    `jsonapi:"attr,id_value"`
	Column   string `jsonapi:"attr,column"`
	Previous any    `jsonapi:"attr,previous"`
	Current  any    `jsonapi:"attr,current"`
}

const (
	opUpdate = "update"
	opInsert = "insert"
)

// changeRows converts records for output.
func changeRows(records []tablediff.ChangeRecord) []*ChangeRow {
	rows := make([]*ChangeRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &ChangeRow{
			ID:       strconv.Itoa(r.Row) + "." + r.Column,
			Op:       opUpdate,
			Row:      r.Row,
			IDValue:  r.RowID,
			Column:   r.Column,
			Previous: r.Previous,
			Current:  r.Current,
		})
	}
	return rows
}

// changeAttrs are the default columns of a change table. The id column is
// only useful when rows are identified.
func changeAttrs(idField string) []string {
	defaults := []string{"row"}
	if idField != "" {
		defaults = append(defaults, "id_value:"+idField)
	}
	return append(defaults, "column", "previous", "current")
}

func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(ChangeRow{})) {
		return nil
	}

	specs, pick := differ.Specs(cmd.Args().Slice())
	snaps, err := diffSnapshots(ctx, cmd, specs, pick)
	if err != nil || snaps == nil {
		return err
	}
	cur, prev := snaps[0], snaps[1]

	w := stdout(cmd)
	if cmd.Bool("deep") {
		_, err := differ.Deep(w, cur, prev, cmd.Bool("color"))
		return err
	}

	idField := cmd.String("id")
	var opts []tablediff.Option
	if idField != "" {
		opts = append(opts, tablediff.WithRowIDField(idField))
	}

	records, err := tablediff.Diff(cur, prev, opts...)
	if errors.Is(err, tablediff.ErrLengthMismatch) || errors.Is(err, tablediff.ErrShapeMismatch) {
		return fmt.Errorf("%w (--deep compares snapshots of any shape)", err)
	}
	if err != nil {
		return err
	}

	if len(records) == 0 && cmd.String("output") == "text" {
		fmt.Fprintln(w, "No changes.")
		return nil
	}

	if cmd.Bool("titles") {
		cmd.Metadata["footer"] = fmt.Sprintf("%s in %s",
			plural(len(records), "change"), plural(tablediff.CountRows(records), "row"))
	}

	return EmitJSONAPISlice(changeRows(records), BuildPayloadAttrs(cmd, changeAttrs(idField)...), cmd)
}

// diffSnapshots returns the current and previous snapshots named by specs,
// or by the picker when pick is set. Nil without an error means the picker
// was dismissed.
func diffSnapshots(ctx context.Context, cmd *cli.Command, specs []string, pick bool) ([]tablediff.Snapshot, error) {
	if !pick && isFileSpec(specs[0]) && isFileSpec(specs[1]) {
		cur, err := snapshot.Load(specs[0])
		if err != nil {
			return nil, err
		}
		prev, err := snapshot.Load(specs[1])
		if err != nil {
			return nil, err
		}
		return []tablediff.Snapshot{cur, prev}, nil
	}

	st, err := openStore(ctx, cmd)
	if err != nil {
		return nil, err
	}
	defer closeStore(ctx, st)

	if !pick {
		snaps, err := store.Snapshots(ctx, st, specs...)
		if err != nil {
			return nil, store.Friendly(err, store.ContextOf(st, "diff"))
		}
		return snaps, nil
	}

	ver, ok := st.(store.Versioner)
	if !ok {
		return nil, fmt.Errorf("%w: %s has nothing to pick from", store.ErrNoHistory, st.Type())
	}
	if !interactive() {
		return nil, errors.New("the version picker needs a terminal")
	}

	vs, err := ver.Versions(ctx)
	if err != nil {
		return nil, store.Friendly(err, store.ContextOf(st, "versions"))
	}
	if len(vs) < 2 {
		return nil, fmt.Errorf("%s keeps %s, nothing to compare", st.String(), plural(len(vs), "version"))
	}

	picked, err := differ.SelectVersions(vs)
	if err != nil || picked == nil {
		return nil, err
	}

	snaps := make([]tablediff.Snapshot, 0, len(picked))
	for _, v := range picked {
		body, err := ver.Version(ctx, v.ID)
		if err != nil {
			return nil, store.Friendly(err, store.ContextOf(st, "read version "+v.ID))
		}
		s, err := snapshot.FromJSON(body)
		if err != nil {
			return nil, fmt.Errorf("version %s: %w", v.ID, err)
		}
		snaps = append(snaps, s)
	}
	return snaps, nil
}

func isFileSpec(s string) bool {
	if s == "-" {
		return true
	}
	info, err := os.Stat(s)
	return err == nil && !info.IsDir()
}

func diffCommandBuilder(m meta.Meta) *cli.Command {
	flags := append(NewStoreFlags(m, "diff"),
		NewIDFlag(m, "diff", ""),
		&cli.BoolFlag{
			Name:    "deep",
			Aliases: []string{"d"},
			Usage:   "structural diff of the whole documents",
		},
	)

	return report{
		name:  "diff",
		usage: "compare two snapshots cell by cell",
		usageText: `rsheet diff [options] [CURRENT [PREVIOUS]]

  With no arguments the two most recent versions are compared. A single
  argument is compared with the current documents. Arguments are files,
  ~N for the N-th most recent version, serial numbers or version IDs.
  Use + to pick two versions interactively.`,
		flags:  flags,
		action: diffCommandAction,
		meta:   m,
	}.command()
}
