// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/filters"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/storeutil"
)

// Augmenter[T] is a callback function that customizes options before
// each store call. It receives the context, command, and a pointer to the
// options object, allowing mutation of options based on command flags or
// other context. Return an error to abort the call.
type Augmenter[T any] func(
	context.Context,
	*cli.Command,
	*T,
) error

// findAugmenters shape the FindOptions of every command reading documents.
var findAugmenters = []Augmenter[store.FindOptions]{
	limitAugmenter,
	matchAugmenter,
	serverSideFilterAugmenter,
}

// findOptions runs augmenters over a zero FindOptions.
func findOptions(ctx context.Context, cmd *cli.Command, augmenters ...Augmenter[store.FindOptions]) (store.FindOptions, error) {
	var opts store.FindOptions
	for _, a := range augmenters {
		if err := a(ctx, cmd, &opts); err != nil {
			return store.FindOptions{}, err
		}
	}
	log.Debugf("find options: limit=%d match=%v", opts.Limit, opts.Match)
	return opts, nil
}

func limitAugmenter(ctx context.Context, cmd *cli.Command, opts *store.FindOptions) error {
	opts.Limit = int64(cmd.Int("limit"))
	return nil
}

func matchAugmenter(ctx context.Context, cmd *cli.Command, opts *store.FindOptions) error {
	m, err := storeutil.ParseMatch(cmd.StringSlice("match"))
	if err != nil {
		return err
	}
	for k, v := range m {
		setMatch(opts, k, v)
	}
	return nil
}

// serverSideFilterAugmenter moves "_key=value" filters into the store query.
// Only plain equality can be expressed that way.
func serverSideFilterAugmenter(ctx context.Context, cmd *cli.Command, opts *store.FindOptions) error {
	list, err := filters.Parse(cmd.String("filter"))
	if err != nil {
		return err
	}
	for _, f := range list {
		if !f.Store {
			continue
		}
		if f.Op != filters.OpEqual || f.Negate {
			return fmt.Errorf("filter _%s: only = can be applied by the store", f.Key)
		}
		setMatch(opts, f.Key, storeutil.ParseValue(f.Value))
	}
	return nil
}

func setMatch(opts *store.FindOptions, k string, v any) {
	if opts.Match == nil {
		opts.Match = map[string]any{}
	}
	opts.Match[k] = v
}
