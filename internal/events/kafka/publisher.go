package kafka

import (
	"context"
	"encoding/json"

	"github.com/corebanking/balance-service/internal/events"
	"github.com/segmentio/kafka-go"
)

// Publisher writes domain events to Kafka.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Kafka-backed event publisher for the given brokers.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish marshals the event and writes it to the given topic.
func (p *Publisher) Publish(topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(
		context.Background(),
		kafka.Message{
			Topic: topic,
			Value: data,
		},
	)
}

// Close flushes pending messages and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ events.Publisher = (*Publisher)(nil)
