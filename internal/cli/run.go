package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/babylon-agents/babylon-agent/internal/a2a"
	"github.com/babylon-agents/babylon-agent/internal/agent"
	"github.com/babylon-agents/babylon-agent/internal/config"
	"github.com/babylon-agents/babylon-agent/internal/identity"
	"github.com/babylon-agents/babylon-agent/internal/memory"
	"github.com/babylon-agents/babylon-agent/internal/notify"
	"github.com/babylon-agents/babylon-agent/internal/provider"
	"github.com/babylon-agents/babylon-agent/internal/session"
	"github.com/babylon-agents/babylon-agent/internal/tools"
	"github.com/babylon-agents/babylon-agent/internal/trace"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the autonomous agent loop",
	RunE:  runLoop,
}

// runtime bundles the components built during startup.
type runtime struct {
	identity *identity.Identity
	client   *a2a.Client
	engine   *agent.Engine
}

// buildRuntime performs the phased startup: identity, A2A client, decision
// engine. Any failure here is fatal; the loop is never entered.
func buildRuntime(cfg *config.Config) (*runtime, error) {
	// Phase 1: agent identity
	id, err := identity.New(cfg.Babylon, cfg.Agent.Name)
	if err != nil {
		return nil, err
	}
	fmt.Println("✅ Agent identity ready")
	fmt.Printf("   Token ID: %d\n", id.TokenID)
	fmt.Printf("   Address:  %s\n", id.Address)
	fmt.Printf("   Agent ID: %s\n", id.AgentID())
	fmt.Println()

	// Phase 2: Babylon A2A connection
	client := a2a.NewClient(cfg.Babylon.EndpointURL, id.Address, id.ChainID, id.TokenID, cfg.Babylon.PrivateKey)
	fmt.Printf("✅ Babylon A2A endpoint: %s\n", cfg.Babylon.EndpointURL)
	fmt.Println()

	// Phase 3: decision engine
	if cfg.Providers.OpenAI.APIKey == "" {
		client.Close()
		return nil, fmt.Errorf("API key not found: set GROQ_API_KEY, OPENROUTER_API_KEY, or BABYLON_OPENAI_API_KEY")
	}
	prov := provider.NewOpenAIProvider(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.APIBase, cfg.Model.Name)

	actions := memory.NewActionLog()
	registry := tools.NewRegistry()
	tools.RegisterBabylonTools(registry, client, actions)

	engine := agent.NewEngine(agent.EngineOptions{
		Provider:      prov,
		Registry:      registry,
		Actions:       actions,
		Sessions:      session.NewManager(),
		Strategy:      cfg.Agent.Strategy,
		Model:         cfg.Model.Name,
		MaxTokens:     cfg.Model.MaxTokens,
		Temperature:   cfg.Model.Temperature,
		MaxIterations: cfg.Model.MaxToolIterations,
	})
	fmt.Printf("✅ Decision engine ready (model %s, strategy %s)\n", prov.DefaultModel(), cfg.Agent.Strategy)
	fmt.Printf("   Tools: %d Babylon actions\n", len(engine.ToolNames()))
	fmt.Println()

	return &runtime{identity: id, client: client, engine: engine}, nil
}

func runLoop(cmd *cobra.Command, args []string) error {
	printHeader("🤖 Babylon Agent")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt, err := buildRuntime(cfg)
	if err != nil {
		return err
	}

	var notifier agent.Notifier
	if cfg.Notify.SlackEnabled {
		notifier = notify.NewSlackNotifier(cfg.Notify.SlackToken, cfg.Notify.SlackChannel)
		fmt.Printf("✅ Slack notifications to %s\n", cfg.Notify.SlackChannel)
	}

	var publisher agent.Publisher
	var kafkaPub *trace.KafkaPublisher
	if cfg.Trace.Enabled {
		kafkaPub = trace.NewKafkaPublisher(cfg.Trace.Brokers, cfg.Trace.Topic)
		publisher = kafkaPub
		fmt.Printf("✅ Tick traces to Kafka topic %s\n", cfg.Trace.Topic)
	}

	loop := agent.NewLoop(agent.LoopOptions{
		Oracle:     rt.engine,
		SessionKey: rt.identity.AgentID(),
		Interval:   cfg.Agent.TickInterval(),
		Notifier:   notifier,
		Publisher:  publisher,
		OnShutdown: func() {
			rt.client.Close()
			if kafkaPub != nil {
				kafkaPub.Close()
			}
		},
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🔄 Autonomous loop started (tick every %s, Ctrl-C to stop)\n", cfg.Agent.TickInterval())
	return loop.Run(ctx)
}
