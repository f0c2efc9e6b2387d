// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for rsheet's user
// configuration. The configuration is expected to be a YAML document located
// in the user's configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/rsheet.yaml or $HOME/.config/rsheet.yaml
//   - Windows: %APPDATA%/rsheet.yaml
//
// Actual resolution relies on os.UserConfigDir which follows platform
// conventions. RSHEET_CFG_FILE overrides the location.
//
// Connection settings may also come from a dotenv file (".env" in the working
// directory unless RSHEET_ENV_FILE says otherwise), which LoadEnv merges into
// the process environment before decoding the Env struct.
package config
