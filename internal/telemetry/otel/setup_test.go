package otel

import (
	"context"
	"testing"
	"time"

	sdklog "go.opentelemetry.io/otel/sdk/log"

	"storegate/internal/telemetry"
)

func TestNewProvidersEmptyEndpointIsNoop(t *testing.T) {
	p, err := NewProviders(context.Background(), "   ", "storegate-test", false)
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	if p.TracerProvider == nil || p.MeterProvider == nil || p.LoggerProvider == nil {
		t.Fatal("no-op providers missing")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	cases := []struct {
		in           string
		target       string
		insecure     bool
		wantErr      bool
		insecureFlag bool
	}{
		{in: "localhost:4317", target: "localhost:4317", insecure: true},
		{in: "http://collector:4317", target: "collector:4317", insecure: true},
		{in: "https://collector:4317/v1/traces", target: "collector:4317", insecure: false},
		{in: "https://collector:4317", target: "collector:4317", insecure: true, insecureFlag: true},
		{in: "://", wantErr: true},
	}
	for _, tc := range cases {
		target, insecure, err := parseEndpoint(tc.in, tc.insecureFlag)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseEndpoint(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseEndpoint(%q): %v", tc.in, err)
			continue
		}
		if target != tc.target || insecure != tc.insecure {
			t.Errorf("parseEndpoint(%q) = %q %v, want %q %v", tc.in, target, insecure, tc.target, tc.insecure)
		}
	}
}

func TestAuditSinkNilProvider(t *testing.T) {
	sink := NewAuditSink(nil)
	if _, ok := sink.(telemetry.NopSink); !ok {
		t.Fatalf("sink = %T, want NopSink", sink)
	}
	sink.Record(context.Background(), &telemetry.AuditRecord{Operation: "login", Outcome: "ok"})
}

func TestAuditSinkEmitsWithoutPanic(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	sink := NewAuditSink(provider)
	sink.Record(context.Background(), &telemetry.AuditRecord{
		Operation: "login",
		Outcome:   "denied",
		UserEmail: "a@b.com",
		UserAgent: "test-agent",
		IPAddress: "10.0.0.1",
		At:        time.Now().UTC(),
	})
	sink.Record(context.Background(), nil)
}
