// Package main provides the names CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/matsen/names/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()
	rootCmd.SetArgs(cli.NormalizeArgs(os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
