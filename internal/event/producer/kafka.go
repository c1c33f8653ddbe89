// Package producer implements the event.Emitter interface over Kafka.
package producer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"storegate/internal/event"
)

// Writer is the subset of kafka.Writer used by KafkaProducer; swapped for a fake in tests.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer implements event.Emitter using segmentio/kafka-go.
type KafkaProducer struct {
	writer Writer
}

// NewKafkaProducer creates a Kafka producer that writes user events to the given topic.
// Returns nil when brokers or topic are empty (event emission disabled). Call Close
// when shutting down.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaProducer{writer: writer}
}

// NewKafkaProducerWithWriter creates a producer over an existing writer. For tests.
func NewKafkaProducerWithWriter(w Writer) *KafkaProducer {
	return &KafkaProducer{writer: w}
}

// Emit serializes the event as JSON, keyed by user id, and writes it to the topic.
// Uses the given context with a short timeout so slow Kafka does not block callers indefinitely.
func (p *KafkaProducer) Emit(ctx context.Context, ev *event.UserEvent) error {
	if p == nil || p.writer == nil || ev == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(ev.UserID),
		Value: payload,
	})
	if err != nil {
		log.Printf("event: kafka emit failed: %v", err)
		return err
	}
	return nil
}

// Close closes the Kafka writer. Safe to call multiple times.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
