package producer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"storegate/internal/event"
)

// fakeWriter is a test writer that records messages written.
type fakeWriter struct {
	msgs []kafka.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaProducer_Emit(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw)

	ev := &event.UserEvent{
		Name:       event.UserCreated,
		UserID:     "u1",
		Email:      "a@b.com",
		OccurredAt: time.Now().UTC(),
	}
	if err := p.Emit(context.Background(), ev); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "u1" {
		t.Errorf("message key = %q, want user id", fw.msgs[0].Key)
	}

	var got event.UserEvent
	if err := json.Unmarshal(fw.msgs[0].Value, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.Name != event.UserCreated || got.Email != "a@b.com" {
		t.Errorf("payload = %+v", got)
	}
}

func TestKafkaProducer_NilSafe(t *testing.T) {
	var p *KafkaProducer
	if err := p.Emit(context.Background(), &event.UserEvent{Name: event.NewDeviceLogin}); err != nil {
		t.Errorf("nil producer Emit should be a no-op, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("nil producer Close should be a no-op, got %v", err)
	}
	if NewKafkaProducer(nil, "topic") != nil {
		t.Error("NewKafkaProducer without brokers should return nil")
	}
	if NewKafkaProducer([]string{"localhost:9092"}, "") != nil {
		t.Error("NewKafkaProducer without topic should return nil")
	}
}
