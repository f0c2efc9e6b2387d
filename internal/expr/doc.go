// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package expr evaluates row predicates written in HCL expression syntax,
// e.g. `rating >= 4 && contains(tags, "vegan")`. Each field of the row is a
// variable and the whole row is available as `row`.
package expr
