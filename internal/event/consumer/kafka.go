package consumer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"storegate/internal/event"
)

// Fetcher is the subset of kafka.Reader the consumer needs. Tests substitute
// an in-memory implementation.
type Fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded user event. A returned error is logged and the
// message is committed anyway; delivery here is at-most-once by choice, a lost
// notification email is acceptable, a hot retry loop is not.
type Handler func(ctx context.Context, ev *event.UserEvent) error

// Consumer reads user events from Kafka and hands them to a Handler.
type Consumer struct {
	reader Fetcher
}

// NewConsumer connects a consumer-group reader to the given topic. The group id
// lets multiple worker replicas split partitions instead of duplicating sends.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  time.Second,
		}),
	}
}

// NewConsumerWithFetcher wires a custom Fetcher, used in tests.
func NewConsumerWithFetcher(f Fetcher) *Consumer {
	return &Consumer{reader: f}
}

// Run fetches messages until ctx is cancelled. Undecodable payloads are logged
// and committed so a poison message cannot wedge the partition.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("event consumer: fetch: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		var ev event.UserEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Printf("event consumer: drop undecodable message at offset %d: %v", msg.Offset, err)
		} else if err := handle(ctx, &ev); err != nil {
			log.Printf("event consumer: handle %s for user %s: %v", ev.Name, ev.UserID, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("event consumer: commit: %v", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
