package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// defaultDecideTimeout bounds one decision cycle. It is deliberately longer
// than the provider and A2A HTTP timeouts, so in normal operation the natural
// per-request timeouts fire first and a slow decision just delays the next
// tick; the deadline only catches a cycle stuck across many calls.
const defaultDecideTimeout = 3 * time.Minute

// Oracle produces one decision per tick.
type Oracle interface {
	Decide(ctx context.Context, sessionKey string) (*Decision, error)
}

// TickRecord describes the outcome of one tick. Records are emitted to the
// log, the notifier, and the trace publisher, then discarded.
type TickRecord struct {
	Tick      int64     `json:"tick"`
	TraceID   string    `json:"trace_id"`
	Summary   string    `json:"summary"`
	Succeeded bool      `json:"succeeded"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier delivers a tick record to an operator channel.
type Notifier interface {
	Notify(ctx context.Context, rec TickRecord) error
}

// Publisher emits a tick record to a telemetry sink.
type Publisher interface {
	Publish(ctx context.Context, rec TickRecord) error
}

// LoopOptions contains configuration for the tick loop.
type LoopOptions struct {
	Oracle        Oracle
	SessionKey    string
	Interval      time.Duration
	DecideTimeout time.Duration
	Notifier      Notifier  // optional
	Publisher     Publisher // optional
	OnShutdown    func()    // optional, runs once when the loop exits
}

// Loop drives the agent forward at a fixed cadence indefinitely. A failed
// tick never terminates the loop; only context cancellation does.
type Loop struct {
	oracle        Oracle
	sessionKey    string
	interval      time.Duration
	decideTimeout time.Duration
	notifier      Notifier
	publisher     Publisher
	onShutdown    func()
	ticks         atomic.Int64
}

// NewLoop creates a tick loop.
func NewLoop(opts LoopOptions) *Loop {
	interval := opts.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	decideTimeout := opts.DecideTimeout
	if decideTimeout <= 0 {
		decideTimeout = defaultDecideTimeout
	}
	return &Loop{
		oracle:        opts.Oracle,
		sessionKey:    opts.SessionKey,
		interval:      interval,
		decideTimeout: decideTimeout,
		notifier:      opts.Notifier,
		publisher:     opts.Publisher,
		onShutdown:    opts.OnShutdown,
	}
}

// Ticks returns how many ticks have started.
func (l *Loop) Ticks() int64 {
	return l.ticks.Load()
}

// Run executes ticks until the context is cancelled, then releases resources
// and returns nil. The wait after each tick is a fixed interval regardless of
// how long the decision took; the loop does not compensate for drift.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("Tick loop started", "interval", l.interval, "session", l.sessionKey)
	defer func() {
		if l.onShutdown != nil {
			l.onShutdown()
		}
		slog.Info("Tick loop stopped", "ticks", l.ticks.Load())
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		rec := l.tick(ctx)
		l.emit(ctx, rec)

		timer := time.NewTimer(l.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// tick runs one decision cycle. All failures, including panics out of the
// oracle, are absorbed here so the loop keeps running.
func (l *Loop) tick(ctx context.Context) (rec TickRecord) {
	tick := l.ticks.Add(1)
	rec = TickRecord{
		Tick:      tick,
		TraceID:   uuid.NewString(),
		Timestamp: time.Now(),
	}
	slog.Info("Tick started", "tick", tick, "trace_id", rec.TraceID)

	defer func() {
		if r := recover(); r != nil {
			rec.Succeeded = false
			rec.Error = fmt.Sprintf("panic: %v", r)
			slog.Error("Tick panicked", "tick", tick, "panic", r)
		}
	}()

	decideCtx, cancel := context.WithTimeout(ctx, l.decideTimeout)
	defer cancel()

	decision, err := l.oracle.Decide(decideCtx, l.sessionKey)
	if err != nil {
		rec.Succeeded = false
		rec.Error = err.Error()
		slog.Error("Tick failed", "tick", tick, "error", err)
		return rec
	}

	rec.Succeeded = true
	rec.Summary = decision.Summary
	slog.Info("Tick complete",
		"tick", tick,
		"tool_calls", decision.ToolCalls,
		"decision", truncateSummary(decision.Summary, 100))
	return rec
}

// emit forwards the tick record to the optional notifier and publisher.
// Delivery failures are logged and never affect the loop.
func (l *Loop) emit(ctx context.Context, rec TickRecord) {
	if l.notifier != nil {
		if err := l.notifier.Notify(ctx, rec); err != nil {
			slog.Warn("Tick notification failed", "tick", rec.Tick, "error", err)
		}
	}
	if l.publisher != nil {
		if err := l.publisher.Publish(ctx, rec); err != nil {
			slog.Warn("Tick trace publish failed", "tick", rec.Tick, "error", err)
		}
	}
}
