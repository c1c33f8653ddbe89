package event

import "context"

// Emitter emits user events (e.g. to Kafka). Best-effort; callers log and ignore errors.
type Emitter interface {
	Emit(ctx context.Context, ev *UserEvent) error
}

// Noop is an Emitter that discards every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Emit(ctx context.Context, ev *UserEvent) error { return nil }
