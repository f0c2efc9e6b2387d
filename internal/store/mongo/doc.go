// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package mongo is a document store over a MongoDB collection. Documents are
// read with _id projected out and returned as relaxed extended JSON.
package mongo
