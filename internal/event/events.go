// Package event defines the outbound user events the auth engine emits and the
// fire-and-forget machinery that delivers them. Emission is best-effort: a
// failed emit never fails the surrounding auth operation.
package event

import "time"

// Event names consumed by the notification worker.
const (
	UserCreated                = "user.created"
	EmailVerificationRequested = "user.email_verification_requested"
	NewDeviceLogin             = "user.new_device_login"
)

// UserEvent is the payload published to the notification sink, serialized as JSON.
type UserEvent struct {
	Name       string    `json:"name"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Token      string    `json:"token,omitempty"` // email verification token, when applicable
	UserAgent  string    `json:"user_agent,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
