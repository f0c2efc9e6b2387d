// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/snapshot"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/versions"
)

// ErrNoHistory is returned when a version spec is used against a store that
// keeps no versions.
var ErrNoHistory = errors.New("store keeps no versions")

// Load runs a Find and decodes the documents into a Snapshot.
func Load(ctx context.Context, st Store, opts FindOptions) (tablediff.Snapshot, error) {
	body, err := st.Find(ctx, opts)
	if err != nil {
		return tablediff.Snapshot{}, err
	}
	return snapshot.FromJSON(body)
}

// Snapshots resolves each version spec (see versions.Resolve) against the
// store's history and decodes the matching bodies. A spec naming an existing
// file reads that file instead. Stores without history accept only "~0",
// meaning the current documents, and file specs.
func Snapshots(ctx context.Context, st Store, specs ...string) ([]tablediff.Snapshot, error) {
	if len(specs) == 0 {
		specs = []string{"~0"}
	}

	var vs []versions.Version
	ver, hasHistory := st.(Versioner)
	if hasHistory {
		var err error
		if vs, err = ver.Versions(ctx); err != nil {
			return nil, err
		}
	}

	result := make([]tablediff.Snapshot, 0, len(specs))
	for _, spec := range specs {
		var s tablediff.Snapshot
		var err error

		switch {
		case isFile(spec):
			s, err = snapshot.Load(spec)
		case !hasHistory && (spec == "~0" || spec == "0"):
			s, err = Load(ctx, st, FindOptions{})
		case !hasHistory:
			err = fmt.Errorf("%w: %s cannot resolve %q", ErrNoHistory, st.Type(), spec)
		default:
			s, err = resolve(ctx, ver, vs, spec)
		}
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, nil
}

func resolve(ctx context.Context, ver Versioner, vs []versions.Version, spec string) (tablediff.Snapshot, error) {
	found, err := versions.Resolve(vs, spec)
	if err != nil {
		return tablediff.Snapshot{}, err
	}
	v := found[0]
	log.Debugf("version resolved: spec=%s id=%s serial=%d", spec, v.ID, v.Serial)

	body, err := ver.Version(ctx, v.ID)
	if err != nil {
		return tablediff.Snapshot{}, err
	}
	return snapshot.FromJSON(body)
}

func isFile(s string) bool {
	if s == "-" {
		return true
	}
	info, err := os.Stat(s)
	return err == nil && !info.IsDir()
}
