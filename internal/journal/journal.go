// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/journal/migrations"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/log"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

var (
	// ErrNotFound is returned when no entry matches.
	ErrNotFound = errors.New("journal entry not found")
	// ErrAmbiguous is returned when an ID prefix matches several entries.
	ErrAmbiguous = errors.New("journal entry id prefix is ambiguous")
)

// Entry is one set of change records written to a store, keyed by the time
// the change was observed.
type Entry struct {
	ID       string                   `json:"id" yaml:"id"`
	Time     time.Time                `json:"time" yaml:"time"`
	Store    string                   `json:"store" yaml:"store"`
	Command  string                   `json:"command" yaml:"command"`
	IDField  string                   `json:"id_field,omitempty" yaml:"id_field,omitempty"`
	Changes  []tablediff.ChangeRecord `json:"changes" yaml:"changes"`
	// Inserted holds the documents the change added.
	Inserted []tablediff.Row `json:"inserted,omitempty" yaml:"inserted,omitempty"`
	// Undoes is the ID of the entry this one reverted.
	Undoes   string     `json:"undoes,omitempty" yaml:"undoes,omitempty"`
	UndoneAt *time.Time `json:"undone_at,omitempty" yaml:"undone_at,omitempty"`
}

// Journal persists entries in SQLite.
type Journal struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the journal location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rsheet", "journal.db"), nil
}

// Open opens the journal at path, creating it and its schema as needed.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Debugf("journal opened: path=%s", cleanPath)
	return &Journal{db: db, path: cleanPath}, nil
}

// Path returns the journal's file path.
func (j *Journal) Path() string { return j.path }

// Close closes the SQLite handle.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record stores e, assigning an ID and observation time when unset, and
// returns the stored entry.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	if strings.TrimSpace(e.Store) == "" {
		return Entry{}, fmt.Errorf("store is required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.Time = e.Time.UTC().Truncate(time.Millisecond)
	if e.Changes == nil {
		e.Changes = []tablediff.ChangeRecord{}
	}

	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return Entry{}, fmt.Errorf("encode changes: %w", err)
	}
	inserted := []byte("[]")
	if len(e.Inserted) > 0 {
		if inserted, err = json.Marshal(e.Inserted); err != nil {
			return Entry{}, fmt.Errorf("encode inserted: %w", err)
		}
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO entries (id, observed_at, store, command, id_field, changes, inserted, undoes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, toMillis(e.Time), e.Store, e.Command, e.IDField, string(changes), string(inserted), e.Undoes,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record entry: %w", err)
	}
	log.Debugf("journal recorded: id=%s changes=%d", e.ID, len(e.Changes))
	return e, nil
}

const selectEntries = `SELECT id, observed_at, store, command, id_field, changes, inserted, undoes, undone_at FROM entries`

// List returns up to limit entries, newest first. An empty store lists all
// stores; limit <= 0 means no limit.
func (j *Journal) List(ctx context.Context, store string, limit int) ([]Entry, error) {
	q := selectEntries
	var args []any
	if store != "" {
		q += ` WHERE store = ?`
		args = append(args, store)
	}
	q += ` ORDER BY observed_at DESC, rowid DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return j.query(ctx, q, args...)
}

// Get returns the entry whose ID starts with prefix.
func (j *Journal) Get(ctx context.Context, prefix string) (Entry, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Entry{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	entries, err := j.query(ctx, selectEntries+` WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escapeLike(prefix)+"%")
	if err != nil {
		return Entry{}, err
	}
	switch len(entries) {
	case 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return entries[0], nil
	default:
		return Entry{}, fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
	}
}

// Latest returns the newest entry for store that can still be undone: not
// undone already and not itself an undo.
func (j *Journal) Latest(ctx context.Context, store string) (Entry, error) {
	entries, err := j.query(ctx,
		selectEntries+` WHERE store = ? AND undone_at IS NULL AND undoes = ''
		 ORDER BY observed_at DESC, rowid DESC LIMIT 1`, store)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("%w: nothing to undo for %s", ErrNotFound, store)
	}
	return entries[0], nil
}

// MarkUndone flags the entry as reverted at the given time.
func (j *Journal) MarkUndone(ctx context.Context, id string, at time.Time) error {
	res, err := j.db.ExecContext(ctx, `UPDATE entries SET undone_at = ? WHERE id = ?`, toMillis(at), id)
	if err != nil {
		return fmt.Errorf("mark undone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (j *Journal) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			observed int64
			changes  string
			inserted string
			undone   sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &observed, &e.Store, &e.Command, &e.IDField, &changes, &inserted, &e.Undoes, &undone); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Time = fromMillis(observed)
		if undone.Valid {
			t := fromMillis(undone.Int64)
			e.UndoneAt = &t
		}
		if err := json.Unmarshal([]byte(changes), &e.Changes); err != nil {
			return nil, fmt.Errorf("decode changes of %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(inserted), &e.Inserted); err != nil {
			return nil, fmt.Errorf("decode inserted of %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// migrate applies the embedded schema files in name order. They are written
// to be idempotent.
func migrate(db *sql.DB) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
