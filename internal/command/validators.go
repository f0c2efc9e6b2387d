// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/chart"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/expr"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/filters"
)

// outputFormats are the values --output accepts.
var outputFormats = []string{"text", "json", "raw", "yaml"}

// GlobalFlagsValidator checks flags whose errors are better reported before
// the store is opened.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if _, err := filters.Parse(c.String("filter")); err != nil {
		return fmt.Errorf("--filter: %w", err)
	}
	if w := c.String("where"); w != "" {
		if _, err := expr.Compile(w); err != nil {
			return fmt.Errorf("--where: %w", err)
		}
	}
	return nil
}

// oneOf builds a string flag validator accepting only the allowed values.
func oneOf(allowed ...string) func(string) error {
	return func(value string) error {
		if !slices.Contains(allowed, value) {
			return fmt.Errorf("must be one of %v", allowed)
		}
		return nil
	}
}

func validAgg(value string) error {
	_, err := chart.ParseAgg(value)
	return err
}
