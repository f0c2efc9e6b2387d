// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	DefaultDatabase   = "myFirstDatabase"
	DefaultCollection = "recipes"
	DefaultTimeout    = 10 * time.Second
)

type Option = func(ctx context.Context, st *Store, co *options.ClientOptions) error

// New connects to the server at uri and binds the configured collection. The
// driver connects lazily, so an unreachable server surfaces on first use.
func New(ctx context.Context, uri string, opts ...Option) (*Store, error) {
	if !IsURI(uri) {
		return nil, fmt.Errorf("not a MongoDB connection string: %q", uri)
	}

	st := &Store{URI: uri}
	co := options.Client().ApplyURI(uri)

	opts = append([]Option{WithDefaults()}, opts...)
	for _, opt := range opts {
		if err := opt(ctx, st, co); err != nil {
			return nil, err
		}
	}

	client, err := mongo.Connect(co)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	st.client = client
	st.coll = client.Database(st.Database).Collection(st.Collection)

	return st, nil
}

// IsURI reports whether s is a MongoDB connection string.
func IsURI(s string) bool {
	return strings.HasPrefix(s, "mongodb://") || strings.HasPrefix(s, "mongodb+srv://")
}

func WithDefaults() Option {
	return func(ctx context.Context, st *Store, co *options.ClientOptions) error {
		st.Database = DefaultDatabase
		st.Collection = DefaultCollection
		co.SetTimeout(DefaultTimeout)
		co.SetAppName("rsheet")
		return nil
	}
}

func WithDatabase(name string) Option {
	return func(ctx context.Context, st *Store, co *options.ClientOptions) error {
		if name != "" {
			st.Database = name
		}
		return nil
	}
}

func WithCollection(name string) Option {
	return func(ctx context.Context, st *Store, co *options.ClientOptions) error {
		if name != "" {
			st.Collection = name
		}
		return nil
	}
}

// WithTimeout bounds every operation. Zero leaves the default.
func WithTimeout(d time.Duration) Option {
	return func(ctx context.Context, st *Store, co *options.ClientOptions) error {
		if d < 0 {
			return fmt.Errorf("timeout must not be negative: %s", d)
		}
		if d > 0 {
			co.SetTimeout(d)
		}
		return nil
	}
}
