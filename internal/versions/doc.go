// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package versions describes the retained copies of a collection kept by
// stores with history (local file backups, S3 object versions) and resolves
// user version specs such as ~1, a serial, an ID prefix or a file path.
package versions
