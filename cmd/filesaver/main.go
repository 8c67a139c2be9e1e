package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
)

// Entry point for the application
func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Batch failures were already rendered with the report.
		if err != errBatchFailed {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
