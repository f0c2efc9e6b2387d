// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller resolves dotted paths such as "nutrition.calories" or
// "steps[1]" inside a JSON document.
package driller
