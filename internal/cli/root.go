// Package cli implements the babylon-agent command line interface.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/babylon-agents/babylon-agent/internal/cli.version=1.2.3"
	version = "0.3.0"
	logo    = "\n" +
		"  ____        _           _\n" +
		" | __ )  __ _| |__  _   _| | ___  _ __\n" +
		" |  _ \\ / _` | '_ \\| | | | |/ _ \\| '_ \\\n" +
		" | |_) | (_| | |_) | |_| | | (_) | | | |\n" +
		" |____/ \\__,_|_.__/ \\__, |_|\\___/|_| |_|\n" +
		"                    |___/\n"
)

var rootCmd = &cobra.Command{
	Use:   "babylon-agent",
	Short: "Babylon Agent - Autonomous prediction market agent",
	Long:  color.CyanString(logo) + "\nAn autonomous LLM-driven agent for Babylon prediction markets.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(decideCmd)
}

func printHeader(title string) {
	fmt.Println(color.CyanString(logo))
	if title != "" {
		fmt.Println(title)
		fmt.Println("─────────────────────")
	}
}
