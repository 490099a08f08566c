// File: internal/infra/notify/email.go
package notify

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"membership-billing/internal/config"
	"membership-billing/internal/domain/ports/adapter"
)

var _ adapter.ChannelSender = (*emailSender)(nil)

type emailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailSender(cfg config.EmailConfig) *emailSender {
	return &emailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *emailSender) Name() string { return "email" }

// Send dials per message. gomail has no context support, so the dial runs
// in a goroutine and the fan-out timeout is honored by abandoning it.
func (s *emailSender) Send(ctx context.Context, recipientID string, payload adapter.RenderedPayload) (bool, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipientID)
	m.SetHeader("Subject", payload.Title)
	body := payload.Body
	if payload.Link != "" {
		body += "\n\n" + payload.Link
	}
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-done:
		if err != nil {
			return false, fmt.Errorf("smtp send: %w", err)
		}
		return true, nil
	}
}
