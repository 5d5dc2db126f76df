package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSMSSender(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSMSSender(srv.URL, "secret")
	require.NoError(t, s.SendVerificationCode(context.Background(), "+15550000001", "123456"))

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "+15550000001", got["to"])
	assert.Contains(t, got["body"], "123456")
}

func TestWebhookSMSSenderNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookSMSSender(srv.URL, "").SendVerificationCode(context.Background(), "+1", "1")
	assert.Error(t, err)
}

func TestSMTPEmailSender(t *testing.T) {
	s := NewSMTPEmailSender("mail.local", "1025", "no-reply@medislot.local")

	var addr string
	var to []string
	var body string
	s.send = func(a string, _ smtp.Auth, _ string, rcpt []string, msg []byte) error {
		addr, to, body = a, rcpt, string(msg)
		return nil
	}

	require.NoError(t, s.SendVerificationEmail(context.Background(), "hp@clinic.test", "654321"))
	assert.Equal(t, "mail.local:1025", addr)
	assert.Equal(t, []string{"hp@clinic.test"}, to)
	assert.Contains(t, body, "To: hp@clinic.test\r\n")
	assert.Contains(t, body, "654321")
}
