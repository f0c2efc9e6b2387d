// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package file is a document store over a local JSON file. Writes are staged
// and the replaced body is kept as a timestamped .bak sibling, so the store
// can list and read its own history.
package file
