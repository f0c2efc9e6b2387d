// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/editor"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
)

func editCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "edit") {
		return nil
	}
	if !interactive() {
		return errors.New("edit needs a terminal; use save to write a file back")
	}

	idField := cmd.String("id")
	if idField == "" {
		return ErrNoIDField
	}

	st, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeStore(ctx, st)

	before, err := loadDocuments(ctx, cmd, st)
	if err != nil {
		return err
	}

	res, err := editor.Run(before, editor.Options{
		PageSize:  cmd.Int("page-size"),
		CellWidth: cmd.Int("width"),
		Bold:      boldColumns(),
		Title:     fmt.Sprintf("%s %s", st.Type(), st.String()),
		IDField:   idField,
	}, tea.WithAltScreen(), tea.WithContext(ctx))
	if err != nil {
		return err
	}
	if !res.Save {
		fmt.Fprintln(stdout(cmd), "Nothing saved.")
		return nil
	}

	cs, err := planEdit(before, res.Snapshot, res.Added, idField)
	if err != nil {
		return err
	}
	return commit(ctx, cmd, st, "edit", cs)
}

func editCommandBuilder(m meta.Meta) *cli.Command {
	pageSize := m.Env.PageSize
	if pageSize <= 0 {
		pageSize = editor.DefaultPageSize
	}

	flags := append(NewStoreFlags(m, "edit"), NewJournalFlags(m)...)
	flags = append(flags,
		NewIDFlag(m, "edit", "name"),
		NewLimitFlag(m),
		newMatchFlag(),
		newWhereFlag(),
		newDryRunFlag(),
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "rows per page",
			Value: pageSize,
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "cell width",
			Value: editor.DefaultCellWidth,
		},
		newTldrFlag(),
	)

	return &cli.Command{
		Name:      "edit",
		Usage:     "edit documents in a terminal spreadsheet",
		UsageText: "rsheet edit [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: editCommandAction,
	}
}
