// Package main provides the command-line client for a single spreadsheet.
package main

import (
	"os"

	"sheets_bridge/internal/app"
)

func main() {
	app.SetupEnvironment()

	rootCmd := newRootCommand(os.Stdout, connect)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
