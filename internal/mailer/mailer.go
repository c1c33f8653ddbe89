package mailer

import "context"

// Sender delivers the transactional emails the auth flow produces. All sends
// are best-effort from the caller's point of view; failures are logged by the
// worker, never surfaced to the user.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail string) error
	SendVerification(ctx context.Context, toEmail, token string) error
	SendNewDeviceAlert(ctx context.Context, toEmail, userAgent, ipAddress string) error
}

// Noop discards every email. Used when no mail provider is configured.
type Noop struct{}

func (Noop) SendWelcome(context.Context, string) error                        { return nil }
func (Noop) SendVerification(context.Context, string, string) error           { return nil }
func (Noop) SendNewDeviceAlert(context.Context, string, string, string) error { return nil }
