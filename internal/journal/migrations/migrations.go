// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package migrations embeds the journal schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
