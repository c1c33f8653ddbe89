package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"storegate/internal/telemetry"
)

// NewAuditSink returns an AuditSink that emits each record as an OTel log
// record through the given provider. A nil provider yields a no-op sink.
func NewAuditSink(provider *sdklog.LoggerProvider) telemetry.AuditSink {
	if provider == nil {
		return telemetry.NopSink{}
	}
	return &auditSink{logger: provider.Logger("storegate.auth.audit")}
}

type auditSink struct {
	logger otellog.Logger
}

func (s *auditSink) Record(ctx context.Context, rec *telemetry.AuditRecord) {
	if rec == nil {
		return
	}
	r := otellog.Record{}
	at := rec.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	r.SetTimestamp(at)
	r.SetBody(otellog.StringValue(rec.Operation + " " + rec.Outcome))
	r.AddAttributes(
		otellog.String("operation", rec.Operation),
		otellog.String("outcome", rec.Outcome),
	)
	if rec.UserEmail != "" {
		r.AddAttributes(otellog.String("user_email", rec.UserEmail))
	}
	if rec.UserAgent != "" {
		r.AddAttributes(otellog.String("user_agent", rec.UserAgent))
	}
	if rec.IPAddress != "" {
		r.AddAttributes(otellog.String("ip_address", rec.IPAddress))
	}
	s.logger.Emit(ctx, r)
}
