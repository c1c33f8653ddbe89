package mailer

import (
	"context"
	"fmt"
	"html"
	"net/url"

	"github.com/resend/resend-go/v3"
)

type resendSender struct {
	client    *resend.Client
	fromEmail string
	appURL    string
}

// NewResendSender returns a Sender backed by the Resend API. fromEmail must be
// an address under a domain verified in Resend; appURL is the public base URL
// used to build verification links.
func NewResendSender(apiKey, fromEmail, appURL string) Sender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

func (s *resendSender) SendWelcome(ctx context.Context, toEmail string) error {
	body := `<html><body>
  <h2>Welcome to Storegate</h2>
  <p>Your store account is ready. You can sign in and start setting things up right away.</p>
  <p>If you did not create this account, you can ignore this email.</p>
</body></html>`
	return s.send(ctx, toEmail, "Welcome to Storegate", body)
}

func (s *resendSender) SendVerification(ctx context.Context, toEmail, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.appURL, url.QueryEscape(token))
	body := fmt.Sprintf(`<html><body>
  <h2>Verify your email</h2>
  <p>Click the link below to confirm this address. The link expires in 24 hours.</p>
  <p><a href="%s">Verify email</a></p>
  <p>If the button does not work, copy this URL into your browser:<br>%s</p>
</body></html>`, link, link)
	return s.send(ctx, toEmail, "Verify your email - Storegate", body)
}

func (s *resendSender) SendNewDeviceAlert(ctx context.Context, toEmail, userAgent, ipAddress string) error {
	body := fmt.Sprintf(`<html><body>
  <h2>New sign-in to your account</h2>
  <p>Your account was just signed in from a device we have not seen before:</p>
  <ul>
    <li>Device: %s</li>
    <li>IP address: %s</li>
  </ul>
  <p>If this was you, no action is needed. If not, change your password immediately.</p>
</body></html>`, html.EscapeString(userAgent), html.EscapeString(ipAddress))
	return s.send(ctx, toEmail, "New sign-in to your Storegate account", body)
}

func (s *resendSender) send(ctx context.Context, toEmail, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Storegate <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlBody,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, toEmail, err)
	}
	return nil
}
