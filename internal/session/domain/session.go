package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Session represents one device's authenticated relationship with a user. A user
// has at most one live session per device fingerprint; logout moves the session
// to a terminal revoked state, it is never deleted here.
type Session struct {
	ID                 string
	UserID             string
	UserAgent          string
	IPAddress          string
	Fingerprint        string
	HashedRefreshToken string     // SHA-256 of the current refresh token; empty when none is issued
	ExpiresAt          time.Time
	RevokedAt          *time.Time // nil when not revoked; set is terminal
	CreatedAt          time.Time
}

// DeviceFingerprint derives the session lookup key from the device context.
// It groups sessions per device and is not a security boundary.
func DeviceFingerprint(userAgent, ipAddress string) string {
	h := sha256.Sum256([]byte(userAgent + "\n" + ipAddress))
	return hex.EncodeToString(h[:])
}

// Revoked reports whether the session has been terminally revoked.
func (s *Session) Revoked() bool {
	return s.RevokedAt != nil
}

// Expired reports whether the session's expiry is at or before now. Expiry is a
// clock comparison only; expired sessions are rejected but not mutated.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Usable reports whether the session may issue or refresh tokens.
func (s *Session) Usable(now time.Time) bool {
	return !s.Revoked() && !s.Expired(now)
}
