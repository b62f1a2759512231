// Package config provides configuration types and loading for babylon-agent.
package config

import "time"

// Config is the root configuration struct.
// Top-level groups: Babylon, Agent, Model, Providers, Notify, Trace.
type Config struct {
	Babylon   BabylonConfig   `json:"babylon"`
	Agent     AgentConfig     `json:"agent"`
	Model     ModelConfig     `json:"model"`
	Providers ProvidersConfig `json:"providers"`
	Notify    NotifyConfig    `json:"notify"`
	Trace     TraceConfig     `json:"trace"`
}

// ---------------------------------------------------------------------------
// Babylon – A2A endpoint and identity material
// ---------------------------------------------------------------------------

// BabylonConfig groups the A2A endpoint and wallet identity settings.
type BabylonConfig struct {
	EndpointURL string `json:"endpointUrl" envconfig:"A2A_URL"`
	PrivateKey  string `json:"privateKey,omitempty" envconfig:"PRIVATE_KEY"`
	Address     string `json:"address" envconfig:"ADDRESS"`
	ChainID     int64  `json:"chainId" envconfig:"CHAIN_ID"`
	TokenID     int64  `json:"tokenId" envconfig:"TOKEN_ID"`
}

// ---------------------------------------------------------------------------
// Agent – loop behaviour
// ---------------------------------------------------------------------------

// AgentConfig groups agent-level loop settings.
type AgentConfig struct {
	Name                string `json:"name" envconfig:"NAME"`
	Strategy            string `json:"strategy" envconfig:"STRATEGY"`
	TickIntervalSeconds int    `json:"tickIntervalSeconds" envconfig:"TICK_INTERVAL"`
}

// TickInterval returns the configured tick interval as a duration.
func (a AgentConfig) TickInterval() time.Duration {
	if a.TickIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TickIntervalSeconds) * time.Second
}

// ---------------------------------------------------------------------------
// Model – LLM behaviour
// ---------------------------------------------------------------------------

// ModelConfig groups LLM model and decision-loop settings.
type ModelConfig struct {
	Name              string  `json:"name" envconfig:"MODEL"`
	MaxTokens         int     `json:"maxTokens" envconfig:"MAX_TOKENS"`
	Temperature       float64 `json:"temperature" envconfig:"TEMPERATURE"`
	MaxToolIterations int     `json:"maxToolIterations" envconfig:"MAX_TOOL_ITERATIONS"`
}

// ---------------------------------------------------------------------------
// Providers – LLM API keys & endpoints
// ---------------------------------------------------------------------------

// ProvidersConfig contains LLM provider configurations.
type ProvidersConfig struct {
	OpenAI ProviderConfig `json:"openai"`
}

// ProviderConfig contains settings for a single LLM provider.
type ProviderConfig struct {
	APIKey  string `json:"apiKey" envconfig:"API_KEY"`
	APIBase string `json:"apiBase,omitempty" envconfig:"API_BASE"`
}

// ---------------------------------------------------------------------------
// Notify – operator notifications
// ---------------------------------------------------------------------------

// NotifyConfig configures the Slack operator notifier.
type NotifyConfig struct {
	SlackEnabled bool   `json:"slackEnabled" envconfig:"SLACK_ENABLED"`
	SlackToken   string `json:"slackToken" envconfig:"SLACK_TOKEN"`
	SlackChannel string `json:"slackChannel" envconfig:"SLACK_CHANNEL"`
}

// ---------------------------------------------------------------------------
// Trace – tick telemetry
// ---------------------------------------------------------------------------

// TraceConfig configures the Kafka tick-trace publisher.
type TraceConfig struct {
	Enabled bool   `json:"enabled" envconfig:"ENABLED"`
	Brokers string `json:"brokers" envconfig:"BROKERS"`
	Topic   string `json:"topic" envconfig:"TOPIC"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Babylon: BabylonConfig{
			EndpointURL: "http://localhost:3000/api/a2a",
			ChainID:     11155111,
		},
		Agent: AgentConfig{
			Name:                "Babylon Agent",
			Strategy:            "balanced",
			TickIntervalSeconds: 30,
		},
		Model: ModelConfig{
			Name:              "llama-3.1-8b-instant",
			MaxTokens:         4096,
			Temperature:       0.7,
			MaxToolIterations: 10,
		},
		Trace: TraceConfig{
			Topic: "babylon.agent.ticks",
		},
	}
}
