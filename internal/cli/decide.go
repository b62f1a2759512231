package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/babylon-agents/babylon-agent/internal/config"
)

var decideSessionID string

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Run a single decision cycle and print the outcome",
	RunE:  runDecide,
}

func init() {
	decideCmd.Flags().StringVarP(&decideSessionID, "session", "s", "", "Session ID (defaults to the agent id)")
}

func runDecide(cmd *cobra.Command, args []string) error {
	printHeader("🤖 Babylon Agent Decision")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.client.Close()

	sessionKey := decideSessionID
	if sessionKey == "" {
		sessionKey = rt.identity.AgentID()
	}

	fmt.Println("Thinking...")
	decision, err := rt.engine.Decide(cmd.Context(), sessionKey)
	if err != nil {
		return fmt.Errorf("decision failed: %w", err)
	}

	fmt.Printf("\nTool calls: %d\n", decision.ToolCalls)
	fmt.Println("\n" + decision.Summary)
	return nil
}
