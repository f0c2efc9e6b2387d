// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mongo

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/apex/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/storeutil"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// Store is a MongoDB collection.
type Store struct {
	URI        string
	Database   string
	Collection string

	client *mongo.Client
	coll   *mongo.Collection
}

// Find runs the query with _id projected out and renders the documents as a
// relaxed extended JSON array.
func (st *Store) Find(ctx context.Context, opts storeutil.FindOptions) ([]byte, error) {
	fo := options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}

	filter := matchFilter(opts.Match)
	log.Debugf("mongo find: db=%s coll=%s filter=%v limit=%d", st.Database, st.Collection, filter, opts.Limit)

	cur, err := st.coll.Find(ctx, filter, fo)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var buf bytes.Buffer
	buf.WriteByte('[')
	n := 0
	for cur.Next(ctx) {
		doc, err := bson.MarshalExtJSON(cur.Current, false, false)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(doc)
		n++
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}

// Insert adds docs, keeping the column order in each stored document.
func (st *Store) Insert(ctx context.Context, docs tablediff.Snapshot) error {
	if docs.Len() == 0 {
		return nil
	}
	cols := docs.Columns()
	batch := make([]bson.D, 0, docs.Len())
	for _, row := range docs.Rows {
		batch = append(batch, toDocument(row, cols))
	}

	res, err := st.coll.InsertMany(ctx, batch)
	if err != nil {
		return err
	}
	log.Debugf("mongo insert: inserted=%d", len(res.InsertedIDs))
	return nil
}

// Update changes the single document whose idField equals idValue. Nil values
// in set are unset.
func (st *Store) Update(ctx context.Context, idField string, idValue any, set tablediff.Row) error {
	filter, err := st.single(ctx, idField, idValue)
	if err != nil {
		return err
	}

	update := updateDocument(set)
	if len(update) == 0 {
		return nil
	}

	res, err := st.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	log.Debugf("mongo update: matched=%d modified=%d", res.MatchedCount, res.ModifiedCount)
	return nil
}

// Delete removes the one document whose idField equals idValue.
func (st *Store) Delete(ctx context.Context, idField string, idValue any) error {
	filter, err := st.single(ctx, idField, idValue)
	if err != nil {
		return err
	}
	res, err := st.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	log.Debugf("mongo delete: deleted=%d", res.DeletedCount)
	return nil
}

// single returns the filter selecting idField=idValue after checking that it
// matches exactly one document.
func (st *Store) single(ctx context.Context, idField string, idValue any) (bson.D, error) {
	filter := bson.D{{Key: idField, Value: idValue}}

	n, err := st.coll.CountDocuments(ctx, filter, options.Count().SetLimit(2))
	if err != nil {
		return nil, err
	}
	switch {
	case n == 0:
		return nil, fmt.Errorf("%w: %s=%v", storeutil.ErrNoMatch, idField, idValue)
	case n > 1:
		return nil, fmt.Errorf("%w: %s=%v", storeutil.ErrAmbiguous, idField, idValue)
	}
	return filter, nil
}

// Ping checks that the server answers.
func (st *Store) Ping(ctx context.Context) error {
	return st.client.Ping(ctx, nil)
}

func (st *Store) String() string {
	return st.Database + "." + st.Collection
}

func (st *Store) Type() string { return "mongodb" }

func (st *Store) Close(ctx context.Context) error {
	if st.client == nil {
		return nil
	}
	return st.client.Disconnect(ctx)
}

// matchFilter builds an equality filter with keys in sorted order so logged
// queries are stable.
func matchFilter(match map[string]any) bson.D {
	filter := bson.D{}
	for _, k := range sortedKeys(match) {
		filter = append(filter, bson.E{Key: k, Value: match[k]})
	}
	return filter
}

// toDocument orders a row's fields by cols, then any others sorted. Absent
// values are left out.
func toDocument(row tablediff.Row, cols []string) bson.D {
	doc := make(bson.D, 0, len(row))
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
		if v, ok := row[c]; ok && !tablediff.IsAbsent(v) {
			doc = append(doc, bson.E{Key: c, Value: bsonValue(v)})
		}
	}
	for _, k := range sortedKeys(row) {
		if !seen[k] && !tablediff.IsAbsent(row[k]) {
			doc = append(doc, bson.E{Key: k, Value: bsonValue(row[k])})
		}
	}
	return doc
}

// updateDocument splits set into $set and $unset operators.
func updateDocument(set tablediff.Row) bson.D {
	var sets, unsets bson.D
	for _, k := range sortedKeys(set) {
		if tablediff.IsAbsent(set[k]) {
			unsets = append(unsets, bson.E{Key: k, Value: ""})
			continue
		}
		sets = append(sets, bson.E{Key: k, Value: bsonValue(set[k])})
	}

	update := bson.D{}
	if len(sets) > 0 {
		update = append(update, bson.E{Key: "$set", Value: sets})
	}
	if len(unsets) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unsets})
	}
	return update
}

// bsonValue stores whole numbers the way pymongo does: int32 when they fit,
// int64 otherwise. Floats stay doubles.
func bsonValue(v any) any {
	var i int64
	switch n := v.(type) {
	case int:
		i = int64(n)
	case int64:
		i = n
	default:
		return v
	}
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return int32(i)
	}
	return i
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
