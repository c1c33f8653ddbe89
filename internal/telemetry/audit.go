// Package telemetry defines the audit trail the auth service produces.
package telemetry

import (
	"context"
	"time"
)

// AuditRecord is one auth operation outcome. Password and token material never
// appears here.
type AuditRecord struct {
	Operation string
	Outcome   string
	UserEmail string
	UserAgent string
	IPAddress string
	At        time.Time
}

// AuditSink receives audit records. Implementations must not block the request
// path for long; the OTLP-backed sink batches internally.
type AuditSink interface {
	Record(ctx context.Context, rec *AuditRecord)
}

// NopSink discards records.
type NopSink struct{}

func (NopSink) Record(context.Context, *AuditRecord) {}
