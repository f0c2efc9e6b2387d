// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/snapshot"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/storeutil"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/versions"
)

// backupLayout stamps backup names. It sorts lexically in time order.
const backupLayout = "20060102T150405.000000000"

// Store keeps a collection as a JSON array in a local file. Every write moves
// the previous body aside to "<file>.<stamp>.bak", which makes the backups
// the store's version history.
type Store struct {
	Path string
	// Keep is the number of backups retained after a write. Zero keeps all.
	Keep int
	// Create allows the first write to make a missing file.
	Create bool
}

// Find reads the collection and returns the selected documents as a JSON
// array.
func (st *Store) Find(ctx context.Context, opts storeutil.FindOptions) ([]byte, error) {
	s, err := st.load(false)
	if err != nil {
		return nil, err
	}
	return storeutil.Find(s, opts)
}

// Insert appends docs to the collection.
func (st *Store) Insert(ctx context.Context, docs tablediff.Snapshot) error {
	if docs.Len() == 0 {
		return nil
	}
	s, err := st.load(st.Create)
	if err != nil {
		return err
	}
	return st.write(storeutil.Insert(s, docs))
}

// Update changes the single document whose idField equals idValue.
func (st *Store) Update(ctx context.Context, idField string, idValue any, set tablediff.Row) error {
	s, err := st.load(false)
	if err != nil {
		return err
	}
	s, err = storeutil.Update(s, idField, idValue, set)
	if err != nil {
		return err
	}
	return st.write(s)
}

// Apply writes b with a single backup, so one command makes one version.
func (st *Store) Apply(ctx context.Context, b storeutil.Batch) error {
	if b.Empty() {
		return nil
	}
	s, err := st.load(st.Create && len(b.Updates) == 0 && len(b.Deletes) == 0)
	if err != nil {
		return err
	}
	if s, err = b.Apply(s); err != nil {
		return err
	}
	return st.write(s)
}

// Delete removes one document by identifier, keeping the previous body as a
// backup.
func (st *Store) Delete(ctx context.Context, idField string, idValue any) error {
	s, err := st.load(false)
	if err != nil {
		return err
	}
	s, err = storeutil.Delete(s, idField, idValue)
	if err != nil {
		return err
	}
	return st.write(s)
}

// Versions lists the current file and its backups, most recent first.
func (st *Store) Versions(ctx context.Context) ([]versions.Version, error) {
	var vs []versions.Version

	if info, err := os.Stat(st.Path); err == nil {
		vs = append(vs, versions.Version{
			ID:   filepath.Base(st.Path),
			Time: info.ModTime(),
			Size: info.Size(),
			Path: st.Path,
		})
	}

	backups, err := st.backups()
	if err != nil {
		return nil, err
	}
	for _, p := range backups {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		vs = append(vs, versions.Version{
			ID:   filepath.Base(p),
			Time: info.ModTime(),
			Size: info.Size(),
			Path: p,
		})
	}

	return versions.Number(vs), nil
}

// Version returns the body of the current file or one of its backups.
func (st *Store) Version(ctx context.Context, id string) ([]byte, error) {
	base := filepath.Base(st.Path)
	if id != base && !(strings.HasPrefix(id, base+".") && strings.HasSuffix(id, ".bak")) {
		return nil, fmt.Errorf("%q is not a version of %s", id, base)
	}
	if strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("invalid version id %q", id)
	}
	return os.ReadFile(filepath.Join(filepath.Dir(st.Path), id))
}

func (st *Store) String() string { return st.Path }

func (st *Store) Type() string { return "file" }

func (st *Store) Close(ctx context.Context) error { return nil }

func (st *Store) load(missingOK bool) (tablediff.Snapshot, error) {
	data, err := os.ReadFile(st.Path)
	if err != nil {
		if missingOK && os.IsNotExist(err) {
			log.Debugf("new collection file: %s", st.Path)
			return tablediff.Snapshot{}, nil
		}
		return tablediff.Snapshot{}, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return tablediff.Snapshot{}, nil
	}
	return snapshot.FromJSON(data)
}

// write puts s in place of the current body. The new body is staged in a temp
// file first so a failed write leaves the collection untouched.
func (st *Store) write(s tablediff.Snapshot) error {
	body, err := snapshot.ToJSON(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(st.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(st.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(body, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if _, err := os.Stat(st.Path); err == nil {
		backup := st.Path + "." + time.Now().UTC().Format(backupLayout) + ".bak"
		if err := os.Rename(st.Path, backup); err != nil {
			return fmt.Errorf("backup %s: %w", st.Path, err)
		}
		log.Debugf("backup written: %s", backup)
	}

	if err := os.Rename(tmp.Name(), st.Path); err != nil {
		return err
	}

	return st.prune()
}

// backups returns the backup paths, newest first.
func (st *Store) backups() ([]string, error) {
	paths, err := filepath.Glob(st.Path + ".*.bak")
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

func (st *Store) prune() error {
	if st.Keep <= 0 {
		return nil
	}
	paths, err := st.backups()
	if err != nil {
		return err
	}
	for i := st.Keep; i < len(paths); i++ {
		if err := os.Remove(paths[i]); err != nil {
			return err
		}
		log.Debugf("backup pruned: %s", paths[i])
	}
	return nil
}
