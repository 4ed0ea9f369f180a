// Package security implements password change, TOTP two-factor
// authentication and the email and phone verification flows.
package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hoaportal/internal/audit"
	"hoaportal/internal/config"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Settings struct {
	TOTPIssuer       string
	EmailTokenTTL    time.Duration
	PhoneCodeTTL     time.Duration
	PendingRetention time.Duration
	PasswordCost     int
}

func SettingsFrom(cfg config.Config) Settings {
	return Settings{
		TOTPIssuer:       cfg.TOTPIssuer,
		EmailTokenTTL:    cfg.EmailTokenTTL,
		PhoneCodeTTL:     cfg.PhoneCodeTTL,
		PendingRetention: cfg.PendingRetention,
	}
}

type Service struct {
	store    repositories.Store
	pending  PendingStore
	notifier Notifier
	audit    *audit.Logger
	settings Settings
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store repositories.Store, pending PendingStore, notifier Notifier, auditLog *audit.Logger, settings Settings, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		pending:  pending,
		notifier: notifier,
		audit:    auditLog,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
}

// retention is how long the pending store keeps an entry with the given
// token lifetime. Entries outlive their tokens so expiry can be reported.
func (s *Service) retention(ttl time.Duration) time.Duration {
	return max(ttl, s.settings.PendingRetention)
}

func userNotFound(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NotFound("User not found")
	}
	return fmt.Errorf("load user: %w", err)
}

func (s *Service) getUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	return u, nil
}

func lockUser(ctx context.Context, tx repositories.Store, id uuid.UUID) (*models.User, error) {
	u, err := tx.Users().GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	return u, nil
}
