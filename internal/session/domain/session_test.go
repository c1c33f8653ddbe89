package domain

import (
	"testing"
	"time"
)

func TestDeviceFingerprint(t *testing.T) {
	fp := DeviceFingerprint("UA1", "1.2.3.4")
	if len(fp) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(fp))
	}
	if fp != DeviceFingerprint("UA1", "1.2.3.4") {
		t.Error("same device context should produce same fingerprint")
	}
	if fp == DeviceFingerprint("UA2", "1.2.3.4") {
		t.Error("different user agent should produce different fingerprint")
	}
	if fp == DeviceFingerprint("UA1", "5.6.7.8") {
		t.Error("different IP should produce different fingerprint")
	}
	// The separator keeps ("ab","c") and ("a","bc") apart.
	if DeviceFingerprint("ab", "c") == DeviceFingerprint("a", "bc") {
		t.Error("fingerprint should not be ambiguous across field boundaries")
	}
}

func TestSession_Usable(t *testing.T) {
	now := time.Now()
	live := &Session{ExpiresAt: now.Add(time.Hour)}
	if !live.Usable(now) {
		t.Error("unexpired, unrevoked session should be usable")
	}

	expired := &Session{ExpiresAt: now.Add(-time.Minute)}
	if expired.Usable(now) {
		t.Error("expired session should not be usable")
	}
	if !expired.Expired(now) {
		t.Error("Expired should report true for past expiry")
	}

	revokedAt := now.Add(-time.Minute)
	revoked := &Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt}
	if revoked.Usable(now) {
		t.Error("revoked session should not be usable")
	}
	if !revoked.Revoked() {
		t.Error("Revoked should report true when RevokedAt is set")
	}
}
