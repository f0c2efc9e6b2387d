// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"strings"

	awsx "github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/aws"
)

type Option = func(ctx context.Context, st *Store) error

// New returns a Store for the object at uri (s3://bucket/key). Without
// WithClient, a client is built from the shell's AWS configuration.
func New(ctx context.Context, uri string, options ...Option) (*Store, error) {
	loc, err := awsx.ParseURI(uri)
	if err != nil {
		return nil, err
	}

	st := &Store{Location: loc}
	options = append([]Option{WithDefaults()}, options...)
	for _, opt := range options {
		if err := opt(ctx, st); err != nil {
			return nil, err
		}
	}

	if st.client == nil {
		client, err := awsx.NewS3Client(ctx, awsx.Settings{
			Profile:  st.Profile,
			Region:   st.Region,
			Endpoint: st.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		st.client = client
	}

	return st, nil
}

// IsURI reports whether s names an S3 object.
func IsURI(s string) bool {
	return strings.HasPrefix(s, "s3://")
}

func WithDefaults() Option {
	return func(ctx context.Context, st *Store) error {
		st.Region = ""
		st.Profile = ""
		st.Endpoint = ""
		return nil
	}
}

func WithRegion(region string) Option {
	return func(ctx context.Context, st *Store) error {
		if region != "" {
			st.Region = region
		}
		return nil
	}
}

func WithProfile(profile string) Option {
	return func(ctx context.Context, st *Store) error {
		if profile != "" {
			st.Profile = profile
		}
		return nil
	}
}

// WithEndpoint targets an S3-compatible server instead of AWS.
func WithEndpoint(endpoint string) Option {
	return func(ctx context.Context, st *Store) error {
		if endpoint != "" {
			st.Endpoint = endpoint
		}
		return nil
	}
}

// WithClient supplies the S3 client, skipping AWS configuration.
func WithClient(client API) Option {
	return func(ctx context.Context, st *Store) error {
		st.client = client
		return nil
	}
}
