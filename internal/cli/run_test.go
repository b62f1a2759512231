package cli

import (
	"strings"
	"testing"

	"github.com/babylon-agents/babylon-agent/internal/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Babylon.Address = "0xabc"
	cfg.Babylon.TokenID = 42
	cfg.Providers.OpenAI.APIKey = "test-key"
	return cfg
}

func TestBuildRuntime(t *testing.T) {
	rt, err := buildRuntime(testConfig())
	if err != nil {
		t.Fatalf("buildRuntime error: %v", err)
	}
	defer rt.client.Close()

	if rt.identity.AgentID() != "11155111:42" {
		t.Errorf("unexpected agent id %s", rt.identity.AgentID())
	}
	if got := len(rt.engine.ToolNames()); got != 5 {
		t.Errorf("expected 5 tools registered, got %d", got)
	}
}

func TestBuildRuntimeFailsWithoutAddress(t *testing.T) {
	cfg := testConfig()
	cfg.Babylon.Address = ""
	if _, err := buildRuntime(cfg); err == nil {
		t.Fatal("expected fatal startup error for missing address")
	}
}

func TestBuildRuntimeFailsWithoutAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Providers.OpenAI.APIKey = ""
	_, err := buildRuntime(cfg)
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Fatalf("expected API key error, got %v", err)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"run", "decide", "status", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
