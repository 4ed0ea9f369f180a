package notification

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"time"

	"hoaportal/internal/config"

	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

// Email is a plain-text message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// NewMailer picks the backend named by MAIL_BACKEND.
func NewMailer(cfg config.Config, log *zap.Logger) Mailer {
	switch cfg.MailBackend {
	case "smtp":
		return &SMTPMailer{host: cfg.SMTPHost, port: cfg.SMTPPort, from: cfg.MailFrom}
	default:
		return &LogMailer{log: log.Named("mail")}
	}
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Email) error {
	m.log.Info("email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}

type SMTPMailer struct {
	host string
	port int
	from string
}

func (m *SMTPMailer) Send(ctx context.Context, msg Email) error {
	raw, err := m.compose(msg, time.Now())
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, nil, m.from, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *SMTPMailer) compose(msg Email, now time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{{Address: m.from}})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})
	h.SetSubject(msg.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("compose email: %w", err)
	}
	if _, err := w.Write([]byte(msg.Body)); err != nil {
		return nil, fmt.Errorf("compose email: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compose email: %w", err)
	}
	return buf.Bytes(), nil
}
