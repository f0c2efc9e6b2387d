// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/config"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/meta"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/mongo"
)

// Flags hold their parsed value, so each command gets its own.

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

func newDryRunFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Usage:   "show the changes without writing them",
	}
}

func newWhereFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "where",
		Aliases: []string{"w"},
		Usage:   "row predicate, e.g. 'rating >= 4 && category == \"soup\"'",
	}
}

func newMatchFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:    "match",
		Aliases: []string{"m"},
		Usage:   "key=value condition applied by the store (repeatable)",
	}
}

// NewGlobalFlags returns the output shaping flags shared by the commands
// that print result sets.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: oneOf(outputFormats...),
		},
		&cli.IntFlag{
			Name:   "padding",
			Usage:  "spaces between text columns",
			Value:  2,
			Hidden: true,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewStoreFlags returns the flags locating the document store. String flags
// also read namespaced and global keys from the config file.
func NewStoreFlags(m meta.Meta, ns string) []cli.Flag {
	database := m.Env.Database
	if database == "" {
		database = mongo.DefaultDatabase
	}
	collection := m.Env.Collection
	if collection == "" {
		collection = mongo.DefaultCollection
	}

	flags := []*cli.StringFlag{
		{
			Name:        "store",
			Aliases:     []string{"S"},
			Usage:       "collection to use: mongodb:// URI, s3://bucket/key.json or a JSON file",
			HideDefault: true,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RSHEET_STORE"),
				cli.EnvVar("MONGO_CONN_STRING"),
			),
		},
		{
			Name:  "database",
			Usage: "MongoDB database",
			Value: database,
		},
		{
			Name:  "collection",
			Usage: "MongoDB collection",
			Value: collection,
		},
		{
			Name:    "region",
			Usage:   "AWS region for s3:// stores",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AWS_REGION")),
		},
		{
			Name:    "profile",
			Usage:   "AWS profile for s3:// stores",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AWS_PROFILE")),
		},
		{
			Name:    "endpoint",
			Usage:   "S3 compatible endpoint URL",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RSHEET_S3_ENDPOINT")),
		},
	}

	out := make([]cli.Flag, 0, len(flags)+2)
	for _, f := range flags {
		out = append(out, NameSpacedValueChainFlagFromConfigFile(ns, config.Path(), f))
	}

	return append(out,
		&cli.IntFlag{
			Name:  "keep",
			Usage: "backups kept for file stores, 0 keeps all",
			Value: 10,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "store operation timeout",
			Value: mongo.DefaultTimeout,
		},
	)
}

// NewIDFlag returns the identifier field flag. Writing commands need one to
// locate documents; value is the fallback when neither RSHEET_ID_FIELD nor
// the config file names one.
func NewIDFlag(m meta.Meta, ns string, value string) *cli.StringFlag {
	if m.Env.IDField != "" {
		value = m.Env.IDField
	}
	return NameSpacedValueChainFlagFromConfigFile(ns, config.Path(), &cli.StringFlag{
		Name:  "id",
		Usage: "field identifying a document",
		Value: value,
	})
}

// NewLimitFlag returns the fetch limit flag.
func NewLimitFlag(m meta.Meta) *cli.IntFlag {
	limit := m.Env.Limit
	if limit == 0 {
		limit = 20
	}
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"L"},
		Usage:   "maximum documents fetched, 0 for all",
		Value:   limit,
	}
}

// NewJournalFlags returns the change journal flags.
func NewJournalFlags(m meta.Meta) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "journal",
			Usage: "change journal database",
			Value: m.Env.Journal,
		},
		&cli.BoolFlag{
			Name:  "no-journal",
			Usage: "do not record changes",
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain. An empty path adds nothing.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	if path == "" {
		return flag
	}

	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
