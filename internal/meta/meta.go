// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/config"
)

// Meta is handed to every command builder and kept in the command's
// Metadata under "meta".
type Meta struct {
	// Args is the full command line, binary included.
	Args []string
	// Namespace is the subcommand name used for config lookups, or "".
	Namespace string
	// Config is the config file as loaded for Namespace.
	Config config.Type
	// Env holds the environment and dotenv settings.
	Env config.Env
}
