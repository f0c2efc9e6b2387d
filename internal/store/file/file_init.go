// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type Option = func(ctx context.Context, st *Store) error

// New returns a Store for the JSON file at path, relative paths being taken
// from the working directory.
func New(ctx context.Context, path string, options ...Option) (*Store, error) {
	options = append([]Option{WithDefaults(), FromPath(path)}, options...)

	st := &Store{}
	for _, opt := range options {
		if err := opt(ctx, st); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func WithDefaults() Option {
	return func(ctx context.Context, st *Store) error {
		st.Keep = 0
		st.Create = true
		return nil
	}
}

func FromPath(path string) Option {
	return func(ctx context.Context, st *Store) error {
		if path == "" {
			return fmt.Errorf("no collection file given")
		}
		if !filepath.IsAbs(path) {
			cwd, _ := os.Getwd()
			path = filepath.Join(cwd, path)
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return fmt.Errorf("collection file %s is a directory", path)
		}
		st.Path = path
		return nil
	}
}

// WithKeep limits the number of backups retained.
func WithKeep(n int) Option {
	return func(ctx context.Context, st *Store) error {
		if n < 0 {
			return fmt.Errorf("keep must not be negative: %d", n)
		}
		st.Keep = n
		return nil
	}
}

// WithCreate controls whether an insert may create a missing file.
func WithCreate(b bool) Option {
	return func(ctx context.Context, st *Store) error {
		st.Create = b
		return nil
	}
}
