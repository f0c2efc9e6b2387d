// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output filters, transforms, sorts and renders result sets as text
// tables, JSON, YAML or the raw payload.
package output
