// Package main implements the entry point for the workspace directory
// server, which resolves workspace identifiers to records, searches them by
// name, and triggers webhook notifications.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
