// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
)

// report describes a subcommand that prints a result set: ls, diff, chart
// and log. Every report takes --tldr, --schema and the global output flags,
// and validates them before its action runs.
type report struct {
	name      string
	usage     string
	usageText string
	flags     []cli.Flag
	action    cli.ActionFunc
	meta      meta.Meta
}

func (r report) command() *cli.Command {
	flags := append([]cli.Flag{}, r.flags...)
	flags = append(flags, newTldrFlag(), newSchemaFlag())
	flags = append(flags, NewGlobalFlags(r.name)...)

	return &cli.Command{
		Name:      r.name,
		Usage:     r.usage,
		UsageText: r.usageText,
		Metadata:  map[string]any{"meta": r.meta},
		Flags:     flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: r.action,
	}
}

// rowsAction builds an action printing the typed rows fetch returns. The
// schema printed by --schema is that of T, or of *T's element.
func rowsAction[T any](name string, defaults []string, fetch func(context.Context, *cli.Command) ([]T, error)) cli.ActionFunc {
	schema := reflect.TypeFor[T]()
	if schema.Kind() == reflect.Pointer {
		schema = schema.Elem()
	}

	return func(ctx context.Context, cmd *cli.Command) error {
		log.Debugf("Executing action for %v", GetMeta(cmd).Args)
		if ShortCircuitTLDR(ctx, cmd, name) || DumpSchemaIfRequested(cmd, schema) {
			return nil
		}

		rows, err := fetch(ctx, cmd)
		if err != nil {
			return err
		}
		return EmitJSONAPISlice(rows, BuildPayloadAttrs(cmd, defaults...), cmd)
	}
}
