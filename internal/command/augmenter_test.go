// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store"
)

// findOptionsFor parses args with the ls flags and returns the FindOptions
// they produce.
func findOptionsFor(t *testing.T, args ...string) (store.FindOptions, error) {
	t.Helper()

	var opts store.FindOptions
	var ferr error
	cmd := &cli.Command{
		Name:  "ls",
		Flags: append(NewGlobalFlags(), NewLimitFlag(meta.Meta{}), newMatchFlag()),
		Action: func(ctx context.Context, c *cli.Command) error {
			opts, ferr = findOptions(ctx, c, findAugmenters...)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"ls"}, args...)))
	return opts, ferr
}

func TestFindOptions(t *testing.T) {
	opts, err := findOptionsFor(t)
	require.NoError(t, err)
	assert.Equal(t, int64(20), opts.Limit)
	assert.Nil(t, opts.Match)

	opts, err = findOptionsFor(t, "-L", "0", "-m", "category=soup", "-m", "rating=5", "-f", "_vegan=true,name^T")
	require.NoError(t, err)
	assert.Equal(t, int64(0), opts.Limit)
	assert.Equal(t, map[string]any{"category": "soup", "rating": int64(5), "vegan": true}, opts.Match)
}

func TestFindOptions_Errors(t *testing.T) {
	_, err := findOptionsFor(t, "-m", "category")
	assert.ErrorContains(t, err, "key=value")

	_, err = findOptionsFor(t, "-f", "_rating!=5")
	assert.ErrorContains(t, err, "only =")
}
