// Package main provides the leapparse CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapparse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
