// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package chart groups snapshot rows by a category column and draws the
// result as horizontal text bars.
package chart
