// Package main is the entry point for the hotkeys command.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/hotkeys/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
