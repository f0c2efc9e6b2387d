// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/log"
)

// Settings override parts of the shell's AWS configuration chain
// (AWS_PROFILE, ~/.aws/config, instance metadata). Empty fields keep the
// chain's value.
type Settings struct {
	Profile string
	Region  string
	// Endpoint is an S3-compatible server such as MinIO.
	Endpoint string
	// Retryer replaces the SDK's standard retryer.
	Retryer func() awsv2.Retryer
}

// LoadConfig resolves the AWS configuration for s.
func LoadConfig(ctx context.Context, s Settings) (awsv2.Config, error) {
	log.Debugf("aws settings: profile=%s region=%s endpoint=%s", s.Profile, s.Region, s.Endpoint)

	var opts []func(*config.LoadOptions) error
	if s.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(s.Profile))
	}
	if s.Region != "" {
		opts = append(opts, config.WithRegion(s.Region))
	}
	if s.Retryer != nil {
		opts = append(opts, config.WithRetryer(s.Retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awsv2.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// NewS3Client builds an S3 client for s.
func NewS3Client(ctx context.Context, s Settings) (*s3v2.Client, error) {
	cfg, err := LoadConfig(ctx, s)
	if err != nil {
		return nil, err
	}
	return s3v2.NewFromConfig(cfg, s.applyS3), nil
}

// applyS3 points the client at Endpoint with path style addressing, which
// S3-compatible servers expect.
func (s Settings) applyS3(o *s3v2.Options) {
	if s.Endpoint == "" {
		return
	}
	o.BaseEndpoint = awsv2.String(s.Endpoint)
	o.UsePathStyle = true
}

// Location is an object in a bucket.
type Location struct {
	Bucket string
	Key    string
}

// String is the s3:// URI of l.
func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// ParseURI reads an s3://bucket/path/to/key URI.
func ParseURI(uri string) (Location, error) {
	u, err := url.Parse(uri)
	switch {
	case err != nil:
		return Location{}, fmt.Errorf("invalid s3 uri %q: %w", uri, err)
	case u.Scheme != "s3":
		return Location{}, fmt.Errorf("invalid s3 uri %q: scheme must be s3", uri)
	}

	loc := Location{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}
	if loc.Bucket == "" || loc.Key == "" {
		return Location{}, fmt.Errorf("invalid s3 uri %q: want s3://bucket/key", uri)
	}
	return loc, nil
}
