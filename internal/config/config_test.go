package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.JWTIssuer != "storegate-auth" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "storegate-auth")
	}
	if cfg.JWTAudience != "storegate-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "storegate-api")
	}
	if cfg.JWTAccessTTL != "15m" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "15m")
	}
	if cfg.JWTRefreshTTL != "168h" {
		t.Errorf("JWTRefreshTTL = %q, want %q", cfg.JWTRefreshTTL, "168h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.EventKafkaTopic != "storegate-user-events" {
		t.Errorf("EventKafkaTopic = %q, want default", cfg.EventKafkaTopic)
	}
	if cfg.KafkaGroupID != "storegate-notification-worker" {
		t.Errorf("KafkaGroupID = %q, want default", cfg.KafkaGroupID)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("BCRYPT_COST", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
}

func TestLoad_BcryptCostRange(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		err   bool
	}{
		{"valid min", "4", false},
		{"valid max", "31", false},
		{"valid middle", "12", false},
		{"too low", "3", true},
		{"too high", "32", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("HTTP_ADDR", ":8080")
			os.Setenv("BCRYPT_COST", tc.value)
			_, err := Load()
			if tc.err && err == nil {
				t.Errorf("BCRYPT_COST=%s: want error, got nil", tc.value)
			}
			if !tc.err && err != nil {
				t.Errorf("BCRYPT_COST=%s: %v", tc.value, err)
			}
		})
	}
}

func TestTTLHelpers(t *testing.T) {
	cfg := &Config{JWTAccessTTL: "30m", JWTRefreshTTL: "24h"}
	if got := cfg.AccessTTL(); got != 30*time.Minute {
		t.Errorf("AccessTTL = %v, want 30m", got)
	}
	if got := cfg.RefreshTTL(); got != 24*time.Hour {
		t.Errorf("RefreshTTL = %v, want 24h", got)
	}

	bad := &Config{JWTAccessTTL: "garbage", JWTRefreshTTL: "-1h"}
	if got := bad.AccessTTL(); got != 15*time.Minute {
		t.Errorf("invalid AccessTTL should fall back to 15m, got %v", got)
	}
	if got := bad.RefreshTTL(); got != 168*time.Hour {
		t.Errorf("invalid RefreshTTL should fall back to 168h, got %v", got)
	}
}

func TestEventKafkaBrokersList(t *testing.T) {
	cfg := &Config{EventKafkaBrokers: "localhost:9092, broker2:9092 ,"}
	got := cfg.EventKafkaBrokersList()
	if len(got) != 2 || got[0] != "localhost:9092" || got[1] != "broker2:9092" {
		t.Errorf("EventKafkaBrokersList = %v", got)
	}
	empty := &Config{}
	if l := empty.EventKafkaBrokersList(); l != nil {
		t.Errorf("empty brokers should return nil, got %v", l)
	}
}
