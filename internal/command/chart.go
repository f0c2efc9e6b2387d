// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/chart"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/output"
)

func chartCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "chart") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(chart.Bar{})) {
		return nil
	}

	agg, err := chart.ParseAgg(cmd.String("agg"))
	if err != nil {
		return err
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

	by, value := cmd.String("by"), cmd.String("value")
	bars, err := chart.Aggregate(s, by, value, agg)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if cmd.String("output") == "text" {
		title := fmt.Sprintf("%s by %s", agg, by)
		if agg != chart.Count {
			title = fmt.Sprintf("%s of %s by %s", agg, value, by)
		}
		chart.Render(w, bars, chart.RenderOptions{
			Title: title,
			Width: cmd.Int("width"),
			Color: cmd.Bool("color"),
		})
		return nil
	}

	body, err := json.Marshal(bars)
	if err != nil {
		return err
	}
	output.SliceDiceSpit(*bytes.NewBuffer(body), BuildAttrs(cmd, "label,value,rows"), cmd, "", w, nil)
	return nil
}

func chartCommandBuilder(m meta.Meta) *cli.Command {
	flags := append(NewStoreFlags(m, "chart"),
		NewLimitFlag(m),
		newMatchFlag(),
		newWhereFlag(),
		&cli.StringFlag{
			Name:     "by",
			Aliases:  []string{"b"},
			Usage:    "column to group rows by",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "value",
			Aliases: []string{"V"},
			Usage:   "numeric column summed or averaged",
		},
		&cli.StringFlag{
			Name:  "agg",
			Usage: "count, sum or mean",
			Value: string(chart.Count),
			Validator: validAgg,
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "longest bar in cells",
			Value: 40,
		},
	)

	return report{
		name:      "chart",
		usage:     "bar chart of documents grouped by a column",
		usageText: "rsheet chart --by COLUMN [--value COLUMN --agg sum|mean] [options]",
		flags:     flags,
		action:    chartCommandAction,
		meta:      m,
	}.command()
}
