package event

import (
	"context"
	"log"
	"time"
)

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the server stops accepting
// requests before closing the emitter, so in-flight async emits have time to
// complete. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine with a short timeout so the caller is not blocked.
// Use from the auth engine for fire-and-forget notification; errors are logged.
//
// emitter and ev may be nil; EmitAsync returns immediately without starting a goroutine.
// The goroutine uses context.Background() with emitTimeout so request cancellation
// does not abort an in-flight emit.
func EmitAsync(emitter Emitter, ctx context.Context, ev *UserEvent) {
	if emitter == nil || ev == nil {
		return
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, ev); err != nil {
			log.Printf("event: async emit failed: %v", err)
		}
	}()
}
