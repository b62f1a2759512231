// Package notify delivers tick outcomes to an operator channel.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/babylon-agents/babylon-agent/internal/agent"
)

// SlackNotifier posts tick summaries to a Slack channel. Delivery is
// best-effort; the loop logs and ignores failures.
type SlackNotifier struct {
	api     *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier for the given bot token and channel.
func NewSlackNotifier(token, channel string, opts ...slack.Option) *SlackNotifier {
	return &SlackNotifier{
		api:     slack.New(token, opts...),
		channel: channel,
	}
}

// Notify posts one tick record to the configured channel.
func (n *SlackNotifier) Notify(ctx context.Context, rec agent.TickRecord) error {
	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(FormatTick(rec), false))
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	return nil
}

// FormatTick renders a tick record as a single Slack message.
func FormatTick(rec agent.TickRecord) string {
	if !rec.Succeeded {
		return fmt.Sprintf(":x: Tick #%d failed: %s", rec.Tick, rec.Error)
	}
	summary := rec.Summary
	if summary == "" {
		summary = "(no decision text)"
	}
	return fmt.Sprintf(":white_check_mark: Tick #%d: %s", rec.Tick, summary)
}
