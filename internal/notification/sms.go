package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SMSSender delivers verification codes by text message.
type SMSSender interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
}

// WebhookSMSSender posts {to, body} to an SMS gateway webhook.
type WebhookSMSSender struct {
	url   string
	token string
	http  *http.Client
}

func NewWebhookSMSSender(url, token string) *WebhookSMSSender {
	return &WebhookSMSSender{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (s *WebhookSMSSender) SendVerificationCode(ctx context.Context, phone, code string) error {
	raw, err := json.Marshal(map[string]string{
		"to":   phone,
		"body": verificationText(code),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms webhook returned %d", resp.StatusCode)
	}
	return nil
}

// LogSMSSender only logs the code. Used when no gateway is configured.
type LogSMSSender struct{}

func (LogSMSSender) SendVerificationCode(_ context.Context, phone, code string) error {
	log.Info().Str("phone", phone).Str("code", code).Msg("sms delivery disabled, verification code logged")
	return nil
}

func verificationText(code string) string {
	return fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
}
