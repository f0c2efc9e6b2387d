// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the rsheet command set. Each subcommand wires its
// flags, validators and action over a store, and writes go through the
// journal so they can be listed and undone.
package command
