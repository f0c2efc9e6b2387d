// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ renders structural differences between snapshots and helps
// choose which two versions of a collection to compare.
package differ
