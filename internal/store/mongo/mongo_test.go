// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

func TestIsURI(t *testing.T) {
	assert.True(t, IsURI("mongodb://localhost:27017"))
	assert.True(t, IsURI("mongodb+srv://cluster0.example.net"))
	assert.False(t, IsURI("recipes.json"))
	assert.False(t, IsURI("s3://bucket/recipes.json"))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx, "mongodb://localhost:27017")
	require.NoError(t, err)
	defer st.Close(ctx)

	assert.Equal(t, DefaultDatabase, st.Database)
	assert.Equal(t, DefaultCollection, st.Collection)
	assert.Equal(t, "myFirstDatabase.recipes", st.String())
	assert.Equal(t, "mongodb", st.Type())

	st2, err := New(ctx, "mongodb://localhost:27017",
		WithDatabase("kitchen"), WithCollection(""), WithTimeout(time.Second))
	require.NoError(t, err)
	defer st2.Close(ctx)
	assert.Equal(t, "kitchen.recipes", st2.String())

	_, err = New(ctx, "mongodb://localhost:27017", WithTimeout(-time.Second))
	assert.Error(t, err)

	_, err = New(ctx, "postgres://localhost")
	assert.Error(t, err)
}

func TestMatchFilter(t *testing.T) {
	got := matchFilter(map[string]any{"rating": float64(5), "category": "soup"})
	assert.Equal(t, bson.D{{Key: "category", Value: "soup"}, {Key: "rating", Value: float64(5)}}, got)

	assert.Empty(t, matchFilter(nil))
}

func TestToDocument(t *testing.T) {
	row := tablediff.Row{"rating": float64(5), "name": "Tomato Soup", "notes": nil, "vegan": true, "id": float64(1)}

	got := toDocument(row, []string{"id", "name", "rating"})

	assert.Equal(t, bson.D{
		{Key: "id", Value: float64(1)},
		{Key: "name", Value: "Tomato Soup"},
		{Key: "rating", Value: float64(5)},
		{Key: "vegan", Value: true},
	}, got)
}

func TestUpdateDocument(t *testing.T) {
	got := updateDocument(tablediff.Row{"rating": float64(4), "notes": nil, "name": "Stew"})
	assert.Equal(t, bson.D{
		{Key: "$set", Value: bson.D{{Key: "name", Value: "Stew"}, {Key: "rating", Value: float64(4)}}},
		{Key: "$unset", Value: bson.D{{Key: "notes", Value: ""}}},
	}, got)

	got = updateDocument(tablediff.Row{"notes": nil})
	assert.Equal(t, bson.D{{Key: "$unset", Value: bson.D{{Key: "notes", Value: ""}}}}, got)

	assert.Empty(t, updateDocument(tablediff.Row{}))
}

func TestUpdateDocument_KeepsIntegers(t *testing.T) {
	for name, tc := range map[string]struct {
		value any
		want  bson.Type
	}{
		"small int64": {value: int64(4), want: bson.TypeInt32},
		"int32":       {value: int32(4), want: bson.TypeInt32},
		"large int64": {value: int64(1 << 40), want: bson.TypeInt64},
		"float":       {value: 4.5, want: bson.TypeDouble},
	} {
		t.Run(name, func(t *testing.T) {
			raw, err := bson.Marshal(updateDocument(tablediff.Row{"rating": tc.value}))
			require.NoError(t, err)
			assert.Equal(t, tc.want, bson.Raw(raw).Lookup("$set", "rating").Type)
		})
	}

	doc := toDocument(tablediff.Row{"id": int64(7)}, []string{"id"})
	assert.Equal(t, bson.D{{Key: "id", Value: int32(7)}}, doc)
}
