// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("AWS_REGION", "ap-south-1")
	ctx := context.Background()

	cfg, err := LoadConfig(ctx, Settings{})
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", cfg.Region, "shell chain")

	cfg, err = LoadConfig(ctx, Settings{Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)

	called := false
	cfg, err = LoadConfig(ctx, Settings{
		Region: "eu-central-1",
		Retryer: func() awsv2.Retryer {
			called = true
			return retry.NewStandard()
		},
	})
	require.NoError(t, err)
	require.NotNil(t, cfg.Retryer)
	cfg.Retryer()
	assert.True(t, called)
}

func TestNewS3Client(t *testing.T) {
	client, err := NewS3Client(context.Background(), Settings{Region: "us-east-1", Endpoint: "http://localhost:9000"})
	require.NoError(t, err)

	opts := client.Options()
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestApplyS3(t *testing.T) {
	var untouched s3v2.Options
	Settings{}.applyS3(&untouched)
	assert.Nil(t, untouched.BaseEndpoint)
	assert.False(t, untouched.UsePathStyle)
}

func TestParseURI(t *testing.T) {
	for uri, want := range map[string]Location{
		"s3://kitchen/recipes.json":        {"kitchen", "recipes.json"},
		"s3://kitchen/team/a/recipes.json": {"kitchen", "team/a/recipes.json"},
	} {
		got, err := ParseURI(uri)
		require.NoError(t, err, uri)
		assert.Equal(t, want, got)
		assert.Equal(t, uri, got.String())
	}

	for _, uri := range []string{
		"s3://kitchen",
		"s3:///recipes.json",
		"https://kitchen/recipes.json",
		"s3://kit chen/%zz",
	} {
		_, err := ParseURI(uri)
		assert.Error(t, err, uri)
	}
}
