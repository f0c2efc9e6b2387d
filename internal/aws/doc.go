// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws resolves AWS SDK v2 settings into S3 clients and parses the
// s3:// URIs that name S3 backed stores.
package aws
