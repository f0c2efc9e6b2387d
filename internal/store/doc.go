// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package store exposes the document collection behind the commands. The
// implementation (MongoDB, an S3 object or a local JSON file) is picked from
// the store URI, and stores that retain history expose it through Versioner.
package store
