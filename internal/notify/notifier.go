package notify

import (
	"context"
	"fmt"
	"log"

	"storegate/internal/event"
	"storegate/internal/mailer"
)

// Notifier turns user events into emails. It is the worker-side counterpart of
// the emitter in the auth service.
type Notifier struct {
	sender mailer.Sender
}

func NewNotifier(sender mailer.Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Handle dispatches one event to the matching email. Unknown event names are
// skipped so old workers tolerate new producers.
func (n *Notifier) Handle(ctx context.Context, ev *event.UserEvent) error {
	if ev.Email == "" {
		return fmt.Errorf("event %s for user %s has no email address", ev.Name, ev.UserID)
	}
	switch ev.Name {
	case event.UserCreated:
		return n.sender.SendWelcome(ctx, ev.Email)
	case event.EmailVerificationRequested:
		if ev.Token == "" {
			return fmt.Errorf("verification event for user %s has no token", ev.UserID)
		}
		return n.sender.SendVerification(ctx, ev.Email, ev.Token)
	case event.NewDeviceLogin:
		return n.sender.SendNewDeviceAlert(ctx, ev.Email, ev.UserAgent, ev.IPAddress)
	default:
		log.Printf("notify: skipping unknown event %q", ev.Name)
		return nil
	}
}
