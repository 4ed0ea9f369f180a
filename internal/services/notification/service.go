// Package notification sends account messages through the mail and SMS collaborators.
package notification

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Service renders verification messages and hands them to the senders.
type Service struct {
	mailer      Mailer
	sms         SMSSender
	frontendURL string
}

// NewService creates a new notification service.
func NewService(mailer Mailer, sms SMSSender, frontendURL string) *Service {
	return &Service{mailer: mailer, sms: sms, frontendURL: strings.TrimRight(frontendURL, "/")}
}

// VerificationLink is the frontend URL that confirms an email change.
func (s *Service) VerificationLink(token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, url.QueryEscape(token))
}

func (s *Service) SendEmailVerification(ctx context.Context, to, token string, ttl time.Duration) error {
	body := fmt.Sprintf(
		"Please click the link below to verify your new email address:\n\n%s\n\nThis link expires in %s.\n",
		s.VerificationLink(token), humanize(ttl))
	return s.mailer.Send(ctx, Email{To: to, Subject: "Verify your new email address", Body: body})
}

func (s *Service) SendPhoneCode(ctx context.Context, to, code string, ttl time.Duration) error {
	body := fmt.Sprintf("Your HOA portal verification code is %s. It expires in %s.", code, humanize(ttl))
	return s.sms.Send(ctx, SMS{To: to, Body: body})
}

func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
