// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Command bookshelf queries a catalog from the terminal without running the server.
package main

import (
	"fmt"
	"os"

	"github.com/tomtom215/bookshelf/cmd/bookshelf/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := commands.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
