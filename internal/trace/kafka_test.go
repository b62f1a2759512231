package trace

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/babylon-agents/babylon-agent/internal/agent"
)

func TestRecordMessage(t *testing.T) {
	rec := agent.TickRecord{
		Tick:      7,
		TraceID:   "trace-1",
		Summary:   "holding",
		Succeeded: true,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := recordMessage(rec)
	if err != nil {
		t.Fatalf("recordMessage error: %v", err)
	}
	if string(msg.Key) != "tick-7" {
		t.Errorf("expected key tick-7, got %s", msg.Key)
	}
	if !msg.Time.Equal(rec.Timestamp) {
		t.Errorf("expected message time from record, got %v", msg.Time)
	}

	var decoded agent.TickRecord
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("value is not JSON: %v", err)
	}
	if decoded.Tick != 7 || decoded.Summary != "holding" || !decoded.Succeeded {
		t.Errorf("round-tripped record mismatch: %+v", decoded)
	}
}

func TestNewKafkaPublisherTopic(t *testing.T) {
	p := NewKafkaPublisher("localhost:9092,localhost:9093", "babylon.agent.ticks")
	defer p.Close()

	if p.writer.Topic != "babylon.agent.ticks" {
		t.Errorf("unexpected topic %q", p.writer.Topic)
	}
	if p.writer.Addr.String() == "" {
		t.Error("expected broker addresses set")
	}
}
