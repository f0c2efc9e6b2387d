// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package journal keeps the change records written to each store in a SQLite
// database, keyed by observation time, so changes can be reviewed and undone.
package journal
