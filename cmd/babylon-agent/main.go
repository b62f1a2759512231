// Package main is the entry point for the babylon-agent CLI.
package main

import (
	"os"

	"github.com/babylon-agents/babylon-agent/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
