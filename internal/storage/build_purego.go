//go:build purego || !sqlite_vec
// +build purego !sqlite_vec

package storage

// This file is compiled by default and whenever the purego tag is set.
// No C compiler is needed, which keeps cross-compiling the launcher plugin
// trivial.
//
// Build command:
//   CGO_ENABLED=0 go build -tags "purego" ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
