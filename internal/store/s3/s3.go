// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	awsx "github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/aws"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/snapshot"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/store/storeutil"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/versions"
)

// API is the part of the S3 client the store uses.
type API interface {
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	s3v2.ListObjectVersionsAPIClient
}

// Store keeps a collection as a JSON array in one S3 object. With bucket
// versioning enabled every put leaves a version behind, which the store lists
// as its history.
type Store struct {
	Location awsx.Location
	Region   string
	Profile  string
	Endpoint string

	client API
}

// Find reads the current object and returns the selected documents.
func (st *Store) Find(ctx context.Context, opts storeutil.FindOptions) ([]byte, error) {
	s, err := st.load(ctx)
	if err != nil {
		return nil, err
	}
	return storeutil.Find(s, opts)
}

// Insert appends docs and puts the object back.
func (st *Store) Insert(ctx context.Context, docs tablediff.Snapshot) error {
	if docs.Len() == 0 {
		return nil
	}
	s, err := st.load(ctx)
	if err != nil {
		return err
	}
	return st.put(ctx, storeutil.Insert(s, docs))
}

// Update changes the single document whose idField equals idValue.
func (st *Store) Update(ctx context.Context, idField string, idValue any, set tablediff.Row) error {
	s, err := st.load(ctx)
	if err != nil {
		return err
	}
	s, err = storeutil.Update(s, idField, idValue, set)
	if err != nil {
		return err
	}
	return st.put(ctx, s)
}

// Apply writes b as one new object version.
func (st *Store) Apply(ctx context.Context, b storeutil.Batch) error {
	if b.Empty() {
		return nil
	}
	s, err := st.load(ctx)
	if err != nil {
		return err
	}
	if s, err = b.Apply(s); err != nil {
		return err
	}
	return st.put(ctx, s)
}

// Delete removes one document by identifier and writes a new object version.
func (st *Store) Delete(ctx context.Context, idField string, idValue any) error {
	s, err := st.load(ctx)
	if err != nil {
		return err
	}
	s, err = storeutil.Delete(s, idField, idValue)
	if err != nil {
		return err
	}
	return st.put(ctx, s)
}

// Versions lists the object's versions, most recent first. Versions older than
// the latest delete marker belong to a deleted object and are dropped.
func (st *Store) Versions(ctx context.Context) ([]versions.Version, error) {
	paginator := s3v2.NewListObjectVersionsPaginator(st.client, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(st.Location.Bucket),
		Prefix: awsv2.String(st.Location.Key),
	})

	var markers []types.DeleteMarkerEntry
	var objects []types.ObjectVersion
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list object versions: %w", err)
		}
		markers = append(markers, page.DeleteMarkers...)
		objects = append(objects, page.Versions...)
	}

	var lastDelete time.Time
	for _, d := range markers {
		// Prefix listing also returns siblings such as recipes.json.lock.
		if awsv2.ToString(d.Key) != st.Location.Key {
			continue
		}
		if d.LastModified != nil && d.LastModified.After(lastDelete) {
			lastDelete = *d.LastModified
		}
	}

	var vs []versions.Version
	for _, o := range objects {
		if awsv2.ToString(o.Key) != st.Location.Key {
			log.Debugf("skipping %s", awsv2.ToString(o.Key))
			continue
		}
		if o.VersionId == nil || o.LastModified == nil || o.LastModified.Before(lastDelete) {
			continue
		}
		vs = append(vs, versions.Version{
			ID:   *o.VersionId,
			Time: *o.LastModified,
			Size: awsv2.ToInt64(o.Size),
		})
	}

	return versions.Number(vs), nil
}

// Version returns the body of one object version. Version bodies never change
// so they are served from the disk cache when present.
func (st *Store) Version(ctx context.Context, id string) ([]byte, error) {
	if err := purgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	body, hit, err := st.versionCache().Fetch(id, func() ([]byte, error) {
		return st.get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("s3 version: id=%s cached=%v", id, hit)
	return body, nil
}

func (st *Store) String() string { return st.Location.String() }

func (st *Store) Type() string { return "s3" }

func (st *Store) Close(ctx context.Context) error { return nil }

func (st *Store) load(ctx context.Context) (tablediff.Snapshot, error) {
	body, err := st.get(ctx, "")
	if err != nil {
		return tablediff.Snapshot{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return tablediff.Snapshot{}, nil
	}
	return snapshot.FromJSON(body)
}

// get reads the object, or one version of it when versionID is set.
func (st *Store) get(ctx context.Context, versionID string) ([]byte, error) {
	in := &s3v2.GetObjectInput{
		Bucket: awsv2.String(st.Location.Bucket),
		Key:    awsv2.String(st.Location.Key),
	}
	if versionID != "" {
		in.VersionId = awsv2.String(versionID)
	}

	out, err := st.client.GetObject(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	return data, nil
}

func (st *Store) put(ctx context.Context, s tablediff.Snapshot) error {
	body, err := snapshot.ToJSON(s)
	if err != nil {
		return err
	}

	out, err := st.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(st.Location.Bucket),
		Key:         awsv2.String(st.Location.Key),
		Body:        bytes.NewReader(body),
		ContentType: awsv2.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put S3 object: %w", err)
	}
	log.Debugf("s3 put: %s version=%s", st.Location, awsv2.ToString(out.VersionId))
	return nil
}
