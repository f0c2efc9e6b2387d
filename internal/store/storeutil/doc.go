// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package storeutil holds what the document stores share: find options,
// in-memory find/insert/update over a collection held as a Snapshot, and
// parsing of user supplied values.
package storeutil
