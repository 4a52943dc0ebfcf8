// Package main provides the entry point for the styleforge CLI.
package main

import (
	"fmt"
	"os"

	"styleforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
