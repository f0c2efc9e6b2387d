// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/file"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/mongo"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/s3"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/storeutil"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/versions"
)

// FindOptions narrows a Find.
type FindOptions = storeutil.FindOptions

// Batch and Change describe a whole write, see Batcher.
type (
	Batch  = storeutil.Batch
	Change = storeutil.Change
)

var (
	ErrNoMatch   = storeutil.ErrNoMatch
	ErrAmbiguous = storeutil.ErrAmbiguous
)

// Store abstracts the document collection behind the commands.
type Store interface {
	// Find returns the selected documents as a JSON array without _id.
	Find(ctx context.Context, opts FindOptions) ([]byte, error)
	Insert(ctx context.Context, docs tablediff.Snapshot) error
	// Update changes the one document whose idField equals idValue. Nil values
	// in set clear the field: mongo unsets it, whole-body stores keep a null.
	Update(ctx context.Context, idField string, idValue any, set tablediff.Row) error
	// Delete removes the one document whose idField equals idValue.
	Delete(ctx context.Context, idField string, idValue any) error
	String() string
	Type() string
	Close(ctx context.Context) error
}

// Batcher is implemented by stores that write the whole collection at once.
// Apply writes the batch as one new version, or nothing when any part fails.
type Batcher interface {
	Apply(ctx context.Context, b Batch) error
}

// Versioner is implemented by stores that keep earlier copies of the
// collection.
type Versioner interface {
	Versions(ctx context.Context) ([]versions.Version, error)
	Version(ctx context.Context, id string) ([]byte, error)
}

// Settings locate and tune a store. URI decides the implementation.
type Settings struct {
	URI        string
	Database   string
	Collection string
	Region     string
	Profile    string
	Endpoint   string
	Keep       int
	Timeout    time.Duration
}

// FromCommand reads Settings from the command's store flags.
func FromCommand(cmd *cli.Command) Settings {
	return Settings{
		URI:        cmd.String("store"),
		Database:   cmd.String("database"),
		Collection: cmd.String("collection"),
		Region:     cmd.String("region"),
		Profile:    cmd.String("profile"),
		Endpoint:   cmd.String("endpoint"),
		Keep:       cmd.Int("keep"),
		Timeout:    cmd.Duration("timeout"),
	}
}

// NewStore returns the Store named by the command's flags.
func NewStore(ctx context.Context, cmd *cli.Command) (Store, error) {
	return New(ctx, FromCommand(cmd))
}

// New returns the Store implementation for s.URI: MongoDB connection strings
// select mongo, s3:// URIs select s3 and anything else is a local JSON file.
func New(ctx context.Context, s Settings) (Store, error) {
	log.Debugf("new store: uri=%s db=%s coll=%s", redact(s.URI), s.Database, s.Collection)

	var st Store
	var err error
	switch {
	case s.URI == "":
		return nil, fmt.Errorf("no store given: set --store, RSHEET_STORE or MONGO_CONN_STRING")
	case mongo.IsURI(s.URI):
		st, err = mongo.New(ctx, s.URI,
			mongo.WithDatabase(s.Database),
			mongo.WithCollection(s.Collection),
			mongo.WithTimeout(s.Timeout),
		)
	case s3.IsURI(s.URI):
		st, err = s3.New(ctx, s.URI,
			s3.WithRegion(s.Region),
			s3.WithProfile(s.Profile),
			s3.WithEndpoint(s.Endpoint),
		)
	default:
		st, err = file.New(ctx, s.URI, file.WithKeep(s.Keep))
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}
