// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package version reports what the running binary was built from. It imports
// no other rsheet package.
package version

import "runtime/debug"

var (
	// Version is the module version stamped by the build, or "dev".
	Version = "dev"
	// Revision is the VCS commit of the build, when the toolchain recorded it.
	Revision string
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			Revision = s.Value
		}
	}
}

// String is Version followed by the first 12 characters of Revision.
func String() string {
	if len(Revision) > 12 {
		return Version + " " + Revision[:12]
	}
	if Revision != "" {
		return Version + " " + Revision
	}
	return Version
}
