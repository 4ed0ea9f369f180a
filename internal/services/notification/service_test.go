package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMailer struct{ sent []Email }

func (m *recordingMailer) Send(_ context.Context, msg Email) error {
	m.sent = append(m.sent, msg)
	return nil
}

type recordingSMS struct{ sent []SMS }

func (s *recordingSMS) Send(_ context.Context, msg SMS) error {
	s.sent = append(s.sent, msg)
	return nil
}

func TestSendEmailVerification(t *testing.T) {
	mailer := &recordingMailer{}
	s := NewService(mailer, &recordingSMS{}, "https://portal.example.com/")

	require.NoError(t, s.SendEmailVerification(context.Background(), "new@example.com", "tok-123", 24*time.Hour))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, "new@example.com", msg.To)
	assert.Contains(t, msg.Body, "https://portal.example.com/verify-email?token=tok-123")
	assert.Contains(t, msg.Body, "24 hours")
}

func TestSendPhoneCode(t *testing.T) {
	sms := &recordingSMS{}
	s := NewService(&recordingMailer{}, sms, "")

	require.NoError(t, s.SendPhoneCode(context.Background(), "555-123-4567", "123456", 10*time.Minute))
	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0].Body, "123456")
	assert.Contains(t, sms.sent[0].Body, "10 minutes")
}

func TestLogBackendsNeverFail(t *testing.T) {
	assert.NoError(t, NewLogMailer(zap.NewNop()).Send(context.Background(), Email{To: "a@example.com"}))
	assert.NoError(t, NewLogSMSSender(zap.NewNop()).Send(context.Background(), SMS{To: "555-123-4567"}))
}

func TestSMTPCompose(t *testing.T) {
	m := &SMTPMailer{host: "localhost", port: 25, from: "no-reply@hoa.example.com"}
	raw, err := m.compose(Email{To: "ana@example.com", Subject: "Hello", Body: "Hi Ana"}, time.Now())
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, "Subject: Hello")
	assert.Contains(t, text, "<no-reply@hoa.example.com>")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), "Hi Ana"))
}
