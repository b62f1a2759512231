// Package agent implements the decision engine and the autonomous tick loop.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/babylon-agents/babylon-agent/internal/memory"
	"github.com/babylon-agents/babylon-agent/internal/provider"
	"github.com/babylon-agents/babylon-agent/internal/session"
	"github.com/babylon-agents/babylon-agent/internal/tools"
)

const systemInstruction = `You are an autonomous trading agent for Babylon prediction markets.

Your capabilities:
- Trade prediction markets (buy YES/NO shares)
- Post insights to the feed
- Analyze markets and sentiment

Strategy: %s

Guidelines:
- Only trade when you have strong conviction
- Keep posts under 280 characters
- Be thoughtful and add value

Recent Memory:
%s

Your task: Analyze the current state and decide what action to take.
Use the available tools to gather information and execute actions.`

// historyWindow bounds how much prior conversation the model sees per tick.
const historyWindow = 20

// EngineOptions contains configuration for the decision engine.
type EngineOptions struct {
	Provider      provider.LLMProvider
	Registry      *tools.Registry
	Actions       *memory.ActionLog
	Sessions      *session.Manager
	Strategy      string
	Model         string
	MaxTokens     int
	Temperature   float64
	MaxIterations int
}

// Engine asks the LLM for a decision and executes the tools it selects.
type Engine struct {
	provider      provider.LLMProvider
	registry      *tools.Registry
	actions       *memory.ActionLog
	sessions      *session.Manager
	strategy      string
	model         string
	maxTokens     int
	temperature   float64
	maxIterations int
}

// Decision is the outcome of one decision cycle.
type Decision struct {
	Summary   string
	ToolCalls int
}

// NewEngine creates a decision engine.
func NewEngine(opts EngineOptions) *Engine {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 10
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewManager()
	}
	return &Engine{
		provider:      opts.Provider,
		registry:      opts.Registry,
		actions:       opts.Actions,
		sessions:      sessions,
		strategy:      opts.Strategy,
		model:         opts.Model,
		maxTokens:     maxTokens,
		temperature:   opts.Temperature,
		maxIterations: maxIter,
	}
}

// systemPrompt renders the instruction with the current strategy and the
// action-log summary.
func (e *Engine) systemPrompt() string {
	summary := "No recent actions."
	if e.actions != nil {
		summary = e.actions.Summary()
	}
	return fmt.Sprintf(systemInstruction, e.strategy, summary)
}

// Decide runs one decision cycle: the model sees the strategy, recent memory,
// and prior conversation for the session, then calls tools until it produces a
// plain completion or hits the iteration cap.
func (e *Engine) Decide(ctx context.Context, sessionKey string) (*Decision, error) {
	sess := e.sessions.GetOrCreate(sessionKey)

	messages := []provider.Message{{Role: "system", Content: e.systemPrompt()}}
	for _, m := range sess.GetHistory(historyWindow) {
		messages = append(messages, provider.Message{Role: m.Role, Content: m.Content})
	}
	userPrompt := "Analyze the current state and decide what action to take."
	messages = append(messages, provider.Message{Role: "user", Content: userPrompt})

	toolDefs := e.buildToolDefinitions()
	totalCalls := 0

	for i := 0; i < e.maxIterations; i++ {
		resp, err := e.provider.Chat(ctx, &provider.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Model:       e.model,
			MaxTokens:   e.maxTokens,
			Temperature: e.temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("LLM call failed: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			sess.AddMessage("user", userPrompt)
			sess.AddMessage("assistant", resp.Content)
			return &Decision{Summary: resp.Content, ToolCalls: totalCalls}, nil
		}

		messages = append(messages, provider.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			start := time.Now()
			result, err := e.registry.Execute(ctx, tc.Name, tc.Arguments)
			if err != nil {
				// Only unknown tools reach here; adapter failures come back
				// as {"error": ...} payloads.
				result = fmt.Sprintf("Error: %v", err)
			}
			slog.Debug("Tool executed",
				"tool", tc.Name,
				"duration_ms", time.Since(start).Milliseconds(),
				"result_bytes", len(result))
			totalCalls++

			messages = append(messages, provider.Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	return nil, fmt.Errorf("no decision after %d tool iterations", e.maxIterations)
}

func (e *Engine) buildToolDefinitions() []provider.ToolDefinition {
	toolList := e.registry.List()
	defs := make([]provider.ToolDefinition, len(toolList))

	for i, tool := range toolList {
		defs[i] = provider.ToolDefinition{
			Type: "function",
			Function: provider.FunctionDef{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		}
	}

	return defs
}

// ToolNames returns the registered tool names, for startup logging.
func (e *Engine) ToolNames() []string {
	toolList := e.registry.List()
	names := make([]string, len(toolList))
	for i, t := range toolList {
		names[i] = t.Name()
	}
	return names
}

// truncateSummary shortens a decision summary for log lines.
func truncateSummary(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
