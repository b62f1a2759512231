package cli

import (
	"fmt"
	"os"

	"github.com/babylon-agents/babylon-agent/internal/config"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ Babylon Agent Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 Babylon Agent Status")
		fmt.Printf("Version: %s\n", version)

		configPath, err := config.ConfigPath()
		if err == nil {
			if _, statErr := os.Stat(configPath); statErr == nil {
				fmt.Println("Config:   ✓ Found (" + configPath + ")")
			} else {
				fmt.Println("Config:   ✗ Not found (" + configPath + "), using env and defaults")
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Println("Config:   ? Unable to load:", err)
			return
		}

		fmt.Printf("Endpoint: %s\n", cfg.Babylon.EndpointURL)
		if cfg.Babylon.Address != "" {
			fmt.Println("Address:  ✓ Configured")
		} else {
			fmt.Println("Address:  ✗ Missing (set BABYLON_ADDRESS)")
		}
		if cfg.Providers.OpenAI.APIKey != "" {
			fmt.Println("API Key:  ✓ Found")
		} else {
			fmt.Println("API Key:  ✗ Not found")
		}
		fmt.Printf("Model:    %s\n", cfg.Model.Name)
		fmt.Printf("Strategy: %s\n", cfg.Agent.Strategy)
		fmt.Printf("Interval: %s\n", cfg.Agent.TickInterval())
		if cfg.Notify.SlackEnabled {
			fmt.Println("Slack:    ✓ Enabled")
		} else {
			fmt.Println("Slack:    ✗ Disabled")
		}
		if cfg.Trace.Enabled {
			fmt.Printf("Traces:   ✓ Kafka topic %s\n", cfg.Trace.Topic)
		} else {
			fmt.Println("Traces:   ✗ Disabled")
		}
	},
}
