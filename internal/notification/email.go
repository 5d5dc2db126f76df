package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
)

// EmailSender delivers verification codes by email.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email, code string) error
}

// SMTPEmailSender sends plain-text mail through an unauthenticated SMTP relay.
type SMTPEmailSender struct {
	addr string
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPEmailSender(host, port, from string) *SMTPEmailSender {
	return &SMTPEmailSender{
		addr: fmt.Sprintf("%s:%s", strings.TrimSpace(host), strings.TrimSpace(port)),
		from: strings.TrimSpace(from),
		send: smtp.SendMail,
	}
}

func (s *SMTPEmailSender) SendVerificationEmail(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := buildMessage(s.from, email, "Your verification code", verificationText(code))
	if err := s.send(s.addr, nil, s.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// LogEmailSender only logs the code.
type LogEmailSender struct{}

func (LogEmailSender) SendVerificationEmail(_ context.Context, email, code string) error {
	log.Info().Str("email", email).Str("code", code).Msg("email delivery disabled, verification code logged")
	return nil
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, to, subject, body,
	)
}
