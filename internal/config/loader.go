package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".babylon-agent"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("BABYLON_CONFIG")); explicit != "" {
		if strings.HasPrefix(explicit, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, explicit[1:]), nil
		}
		return explicit, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

// Load loads the configuration from file and environment variables.
// Priority: environment > file > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Load process env vars from ~/.babylon-agent/env (and fallbacks) first.
	LoadEnvFileCandidates()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil // Use defaults if we can't find the config path
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	// If the file doesn't exist, continue with defaults.

	// Override with environment variables for each group
	envconfig.Process("BABYLON", &cfg.Babylon)
	envconfig.Process("BABYLON_AGENT", &cfg.Agent)
	envconfig.Process("BABYLON_MODEL", &cfg.Model)
	envconfig.Process("BABYLON_OPENAI", &cfg.Providers.OpenAI)
	envconfig.Process("BABYLON_NOTIFY", &cfg.Notify)
	envconfig.Process("BABYLON_TRACE", &cfg.Trace)

	// Fallback for API Key
	if cfg.Providers.OpenAI.APIKey == "" {
		for _, name := range []string{"GROQ_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY"} {
			if key := os.Getenv(name); key != "" {
				cfg.Providers.OpenAI.APIKey = key
				break
			}
		}
	}
	// Original env var names used by earlier deployments
	if cfg.Babylon.EndpointURL == DefaultConfig().Babylon.EndpointURL {
		if url := strings.TrimSpace(os.Getenv("BABYLON_A2A_URL")); url != "" {
			cfg.Babylon.EndpointURL = url
		}
	}
	if cfg.Babylon.PrivateKey == "" {
		cfg.Babylon.PrivateKey = strings.TrimSpace(os.Getenv("AGENT0_PRIVATE_KEY"))
	}
	if name := strings.TrimSpace(os.Getenv("AGENT_NAME")); name != "" {
		cfg.Agent.Name = name
	}
	if strategy := strings.TrimSpace(os.Getenv("AGENT_STRATEGY")); strategy != "" {
		cfg.Agent.Strategy = strategy
	}

	return cfg, nil
}

// Save writes the configuration to the config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
