// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package s3 is a document store over a single S3 object holding the
// collection as a JSON array. Object versions are the store's history; their
// bodies are cached on disk through cacheutil.
package s3
