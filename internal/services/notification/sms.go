package notification

import (
	"context"

	"hoaportal/internal/config"

	"go.uber.org/zap"
)

type SMS struct {
	To   string
	Body string
}

// SMSSender delivers text messages.
type SMSSender interface {
	Send(ctx context.Context, msg SMS) error
}

// NewSMSSender picks the backend named by SMS_PROVIDER. Only "log" exists.
func NewSMSSender(cfg config.Config, log *zap.Logger) SMSSender {
	return &LogSMSSender{log: log.Named("sms")}
}

type LogSMSSender struct {
	log *zap.Logger
}

func NewLogSMSSender(log *zap.Logger) *LogSMSSender {
	return &LogSMSSender{log: log}
}

func (s *LogSMSSender) Send(ctx context.Context, msg SMS) error {
	s.log.Info("sms", zap.String("to", msg.To), zap.String("body", msg.Body))
	return nil
}
