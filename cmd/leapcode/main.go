// Package main is the entry point of the leapcode CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapcode/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
