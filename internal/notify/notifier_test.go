package notify

import (
	"context"
	"errors"
	"testing"

	"storegate/internal/event"
)

type recordSender struct {
	welcome      []string
	verification map[string]string
	alerts       []string
	err          error
}

func newRecordSender() *recordSender {
	return &recordSender{verification: make(map[string]string)}
}

func (s *recordSender) SendWelcome(_ context.Context, to string) error {
	s.welcome = append(s.welcome, to)
	return s.err
}

func (s *recordSender) SendVerification(_ context.Context, to, token string) error {
	s.verification[to] = token
	return s.err
}

func (s *recordSender) SendNewDeviceAlert(_ context.Context, to, _, _ string) error {
	s.alerts = append(s.alerts, to)
	return s.err
}

func TestHandleDispatchByEventName(t *testing.T) {
	sender := newRecordSender()
	n := NewNotifier(sender)
	ctx := context.Background()

	events := []*event.UserEvent{
		{Name: event.UserCreated, UserID: "u1", Email: "a@b.com"},
		{Name: event.EmailVerificationRequested, UserID: "u1", Email: "a@b.com", Token: "tok-1"},
		{Name: event.NewDeviceLogin, UserID: "u1", Email: "a@b.com", UserAgent: "ua", IPAddress: "ip"},
	}
	for _, ev := range events {
		if err := n.Handle(ctx, ev); err != nil {
			t.Fatalf("Handle(%s): %v", ev.Name, err)
		}
	}

	if len(sender.welcome) != 1 || sender.welcome[0] != "a@b.com" {
		t.Errorf("welcome = %v", sender.welcome)
	}
	if sender.verification["a@b.com"] != "tok-1" {
		t.Errorf("verification = %v", sender.verification)
	}
	if len(sender.alerts) != 1 {
		t.Errorf("alerts = %v", sender.alerts)
	}
}

func TestHandleRejectsIncompleteEvents(t *testing.T) {
	n := NewNotifier(newRecordSender())
	ctx := context.Background()

	if err := n.Handle(ctx, &event.UserEvent{Name: event.UserCreated, UserID: "u1"}); err == nil {
		t.Error("missing email accepted")
	}
	if err := n.Handle(ctx, &event.UserEvent{Name: event.EmailVerificationRequested, UserID: "u1", Email: "a@b.com"}); err == nil {
		t.Error("missing token accepted")
	}
}

func TestHandleSkipsUnknownEvents(t *testing.T) {
	sender := newRecordSender()
	n := NewNotifier(sender)
	if err := n.Handle(context.Background(), &event.UserEvent{Name: "user.renamed", Email: "a@b.com"}); err != nil {
		t.Fatalf("unknown event: %v", err)
	}
	if len(sender.welcome)+len(sender.alerts)+len(sender.verification) != 0 {
		t.Error("unknown event triggered a send")
	}
}

func TestHandlePropagatesSenderError(t *testing.T) {
	sender := newRecordSender()
	sender.err = errors.New("provider down")
	n := NewNotifier(sender)
	if err := n.Handle(context.Background(), &event.UserEvent{Name: event.UserCreated, Email: "a@b.com"}); err == nil {
		t.Fatal("sender error swallowed")
	}
}
