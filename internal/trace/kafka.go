// Package trace publishes tick telemetry to Kafka. Records are fire-and-forget:
// emitted for external observability and never read back by the agent.
package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/babylon-agents/babylon-agent/internal/agent"
)

const publishTimeout = 10 * time.Second

// KafkaPublisher writes tick records to a single topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for a comma-separated broker list.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes one tick record, keyed by tick number.
func (p *KafkaPublisher) Publish(ctx context.Context, rec agent.TickRecord) error {
	msg, err := recordMessage(rec)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.writer.WriteMessages(writeCtx, msg)
}

func recordMessage(rec agent.TickRecord) (kafka.Message, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode tick record: %w", err)
	}
	return kafka.Message{
		Key:   []byte(fmt.Sprintf("tick-%d", rec.Tick)),
		Value: value,
		Time:  rec.Timestamp,
	}, nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
