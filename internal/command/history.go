// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/journal"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// EntryRow is one journal entry as listed by log.
type EntryRow struct {
	ID       string    `jsonapi:"primary,entries"`
	Time     time.Time `jsonapi:"attr,time,iso8601"`
	Ago      string    `jsonapi:"attr,ago"`
	Store    string    `jsonapi:"attr,store"`
	Command  string    `jsonapi:"attr,command"`
	IDField  string    `jsonapi:"attr,id_field"`
	Changes  int       `jsonapi:"attr,changes"`
	Rows     int       `jsonapi:"attr,rows"`
	Inserted int       `jsonapi:"attr,inserted"`
	Summary  string    `jsonapi:"attr,summary"`
	Undoes   string    `jsonapi:"attr,undoes,omitempty"`
	Undone   bool      `jsonapi:"attr,undone"`
}

func entryRow(e journal.Entry) *EntryRow {
	cs := changeSet{Changes: e.Changes, Inserted: e.Inserted}
	return &EntryRow{
		ID:       e.ID,
		Time:     e.Time,
		Ago:      humanize.Time(e.Time),
		Store:    e.Store,
		Command:  e.Command,
		IDField:  e.IDField,
		Changes:  len(e.Changes),
		Rows:     tablediff.CountRows(e.Changes),
		Inserted: len(e.Inserted),
		Summary:  cs.summary(),
		Undoes:   e.Undoes,
		Undone:   e.UndoneAt != nil,
	}
}

// entryChanges lists an entry's updates followed by its inserted documents.
func entryChanges(e journal.Entry) []*ChangeRow {
	rows := changeRows(e.Changes)
	for i, doc := range e.Inserted {
		rows = append(rows, &ChangeRow{
			ID:      opInsert + "." + strconv.Itoa(i),
			Op:      opInsert,
			Row:     i,
			IDValue: doc[e.IDField],
			Current: map[string]any(doc),
		})
	}
	return rows
}

var logDefaultAttrs = []string{".id:id:8", "ago", "command", "summary", "undone"}

func logEntries(ctx context.Context, cmd *cli.Command) ([]*EntryRow, error) {
	j, err := openJournal(cmd)
	if err != nil {
		return nil, err
	}
	defer func() { _ = j.Close() }()

	key := ""
	if !cmd.Bool("all") {
		if st, err := openStore(ctx, cmd); err != nil {
			log.Debugf("log lists every store: %v", err)
		} else {
			key = storeKey(st)
			closeStore(ctx, st)
		}
	}

	entries, err := j.List(ctx, key, cmd.Int("limit"))
	if err != nil {
		return nil, err
	}
	rows := make([]*EntryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryRow(e))
	}
	return rows, nil
}

func logShow(ctx context.Context, cmd *cli.Command, id string) error {
	j, err := openJournal(cmd)
	if err != nil {
		return err
	}
	e, err := j.Get(ctx, id)
	_ = j.Close()
	if err != nil {
		return err
	}

	if cmd.Bool("titles") {
		cmd.Metadata["header"] = fmt.Sprintf("%s %s on %s, %s", e.Command, shortID(e.ID), e.Store, humanize.Time(e.Time))
		cmd.Metadata["footer"] = entryRow(e).Summary
	}

	defaults := append([]string{"op"}, changeAttrs(e.IDField)[1:]...)
	return EmitJSONAPISlice(entryChanges(e), BuildPayloadAttrs(cmd, defaults...), cmd)
}

func logCommandAction(ctx context.Context, cmd *cli.Command) error {
	if id := cmd.Args().First(); id != "" {
		m := GetMeta(cmd)
		log.Debugf("Executing action for %v", m.Args)
		if ShortCircuitTLDR(ctx, cmd, "log") {
			return nil
		}
		if DumpSchemaIfRequested(cmd, reflect.TypeOf(ChangeRow{})) {
			return nil
		}
		return logShow(ctx, cmd, id)
	}
	return rowsAction("log", logDefaultAttrs, logEntries)(ctx, cmd)
}

func logCommandBuilder(m meta.Meta) *cli.Command {
	flags := append(NewStoreFlags(m, "log"), NewJournalFlags(m)...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "all",
			Usage: "list entries of every store",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"L"},
			Usage:   "entries to list, 0 for all",
			Value:   20,
		},
	)

	return report{
		name:  "log",
		usage: "list journaled changes, or show one",
		usageText: `rsheet log [options] [ID]

  ID may be any unique prefix of an entry ID.`,
		flags:  flags,
		action: logCommandAction,
		meta:   m,
	}.command()
}
