// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/config"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
)

// builders lists every subcommand in --help order.
var builders = []func(meta.Meta) *cli.Command{
	addCommandBuilder,
	chartCommandBuilder,
	diffCommandBuilder,
	editCommandBuilder,
	logCommandBuilder,
	lsCommandBuilder,
	saveCommandBuilder,
	undoCommandBuilder,
	completionCommandBuilder,
}

// InitApp builds the rsheet root command for args. args[1], when it is not a
// flag, names the subcommand and is the namespace for config lookups.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	m := meta.Meta{Args: args}
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		m.Namespace = args[1]
	}

	// Without a config file every setting keeps its default.
	m.Config, _ = config.Load(m.Namespace) //nolint:errcheck

	// The dotenv file lands in the environment before any flag reads it.
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	m.Env = env

	app := &cli.Command{
		Name:  "rsheet",
		Usage: "spreadsheet view of a recipe collection",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "rsheet version info",
				HideDefault: true,
			},
		},
	}

	for _, build := range builders {
		cmd := build(m)
		slices.SortFunc(cmd.Flags, func(a, b cli.Flag) int {
			return strings.Compare(a.Names()[0], b.Names()[0])
		})
		app.Commands = append(app.Commands, cmd)
	}
	return app, nil
}
