// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "sub", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestOpen(t *testing.T) {
	_, err := Open(" ")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, j.Path())
	require.NoError(t, j.Close())

	// Reopening applies the schema again without error.
	j, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	var nilJournal *Journal
	assert.NoError(t, nilJournal.Close())
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)

	changes := []tablediff.ChangeRecord{
		{Row: 1, RowID: float64(2), Column: "rating", Current: float64(4), Previous: float64(3)},
		{Row: 1, RowID: float64(2), Column: "notes", Current: "slow", Previous: nil},
	}
	e, err := j.Record(ctx, Entry{Store: "recipes.json", Command: "edit", IDField: "id", Changes: changes,
		Inserted: []tablediff.Row{{"id": float64(3), "name": "Pad Thai"}}})
	require.NoError(t, err)

	_, err = uuid.Parse(e.ID)
	assert.NoError(t, err)
	assert.False(t, e.Time.IsZero())

	got, err := j.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.Time, got.Time)
	assert.Equal(t, "recipes.json", got.Store)
	assert.Equal(t, "edit", got.Command)
	assert.Equal(t, "id", got.IDField)
	assert.Equal(t, []tablediff.Row{{"id": float64(3), "name": "Pad Thai"}}, got.Inserted)
	assert.Equal(t, changes, got.Changes)
	assert.Nil(t, got.UndoneAt)

	_, err = j.Record(ctx, Entry{Command: "edit"})
	assert.Error(t, err, "store is required")
}

func TestRecord_EmptyChanges(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)

	e, err := j.Record(ctx, Entry{Store: "s", Command: "undo"})
	require.NoError(t, err)

	got, err := j.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Changes)
	assert.NotNil(t, got.Changes)
	assert.Empty(t, got.Inserted)
}

func seed(t *testing.T, j *Journal) {
	t.Helper()
	ctx := context.Background()
	for i, e := range []Entry{
		{ID: "aaa111", Store: "recipes.json", Time: t0},
		{ID: "aaa222", Store: "recipes.json", Time: t0.Add(time.Minute)},
		{ID: "bbb333", Store: "kitchen.recipes", Time: t0.Add(2 * time.Minute)},
		{ID: "ccc444", Store: "recipes.json", Time: t0.Add(3 * time.Minute), Undoes: "aaa222"},
	} {
		e.Command = "edit"
		_, err := j.Record(ctx, e)
		require.NoError(t, err, "entry %d", i)
	}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestList(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	seed(t, j)

	all, err := j.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"ccc444", "bbb333", "aaa222", "aaa111"}, ids(all))

	mine, err := j.List(ctx, "recipes.json", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ccc444", "aaa222"}, ids(mine))

	none, err := j.List(ctx, "other", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	seed(t, j)

	e, err := j.Get(ctx, "bbb")
	require.NoError(t, err)
	assert.Equal(t, "bbb333", e.ID)

	_, err = j.Get(ctx, "aaa")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = j.Get(ctx, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = j.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = j.Get(ctx, "%")
	assert.ErrorIs(t, err, ErrNotFound, "LIKE wildcards are literal")
}

func TestLatestAndMarkUndone(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	seed(t, j)

	// ccc444 is an undo, so the newest undoable entry is aaa222.
	e, err := j.Latest(ctx, "recipes.json")
	require.NoError(t, err)
	assert.Equal(t, "aaa222", e.ID)

	at := t0.Add(time.Hour)
	require.NoError(t, j.MarkUndone(ctx, "aaa222", at))

	got, err := j.Get(ctx, "aaa222")
	require.NoError(t, err)
	require.NotNil(t, got.UndoneAt)
	assert.Equal(t, at, *got.UndoneAt)

	e, err = j.Latest(ctx, "recipes.json")
	require.NoError(t, err)
	assert.Equal(t, "aaa111", e.ID)

	require.NoError(t, j.MarkUndone(ctx, "aaa111", at))
	_, err = j.Latest(ctx, "recipes.json")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, j.MarkUndone(ctx, "nope", at), ErrNotFound)
}

func TestRecord_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j := openJournal(t)

	_, err := j.Record(ctx, Entry{Store: "s"})
	assert.ErrorIs(t, err, context.Canceled)
}
