package security

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hoaportal/internal/audit"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories"
	"hoaportal/internal/utils"
	"hoaportal/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	emailTokenBytes = 32
	phoneCodeMin    = 100000
	phoneCodeMax    = 999999
)

// Email requests are keyed by user and token so several may be in flight at
// once. Phone requests are keyed by user, so a new request replaces the old one.
func emailKey(userID uuid.UUID, token string) string {
	return "email_verification:" + userID.String() + ":" + token
}

func phoneKey(userID uuid.UUID) string { return "phone_verification:" + userID.String() }

type pendingEmail struct {
	NewEmail  string    `json:"new_email"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type pendingPhone struct {
	NewPhone  string    `json:"new_phone"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RequestEmailChange stores a verification token for newEmail and mails it
// to that address. The token stays valid even when delivery fails.
func (s *Service) RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	v := validation.New()
	v.Required("new_email", newEmail)
	v.Email("new_email", newEmail)
	if err := v.Err(); err != nil {
		return err
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}
	taken, err := s.store.Users().EmailTaken(ctx, newEmail, userID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return apperrors.FieldError("new_email", "Email address is already in use")
	}

	token, err := utils.GenerateSecureToken(emailTokenBytes)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	entry := pendingEmail{
		NewEmail:  newEmail,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.settings.EmailTokenTTL),
	}
	if err := s.pending.SetWithTTL(ctx, emailKey(userID, token), entry, s.retention(s.settings.EmailTokenTTL)); err != nil {
		return fmt.Errorf("store email verification: %w", err)
	}

	if err := s.notifier.SendEmailVerification(ctx, newEmail, token, s.settings.EmailTokenTTL); err != nil {
		s.log.Error("failed to send verification email", zap.String("user_id", userID.String()), zap.Error(err))
		return apperrors.External("Failed to send verification email")
	}

	s.log.Info("email verification requested", zap.String("user_id", userID.String()))
	return nil
}

// ConfirmEmail applies a pending email change. The entry is claimed before
// the user is touched, so a token applies at most once. A failed update puts
// it back.
func (s *Service) ConfirmEmail(ctx context.Context, userID uuid.UUID, token string, rc audit.RequestContext) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.ErrTokenRequired
	}

	key := emailKey(userID, token)
	var entry pendingEmail
	found, err := s.pending.GetAndDelete(ctx, key, &entry)
	if err != nil {
		return fmt.Errorf("claim email verification: %w", err)
	}
	if !found || entry.UserID != userID {
		return apperrors.ErrTokenInvalid
	}
	if !s.now().Before(entry.ExpiresAt) {
		return apperrors.ErrTokenExpired
	}

	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		old := u.Email
		u.Email = entry.NewEmail
		u.LastProfileUpdate = s.now()
		if err := tx.Users().Save(ctx, u); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperrors.Conflict("Email address is already in use")
			}
			return fmt.Errorf("save user: %w", err)
		}
		return s.audit.Record(ctx, tx.ChangeLogs(), u.ID, models.ChangeEmailVerification, "email", old, entry.NewEmail, rc)
	})
	if err != nil {
		s.release(ctx, key, entry, entry.ExpiresAt, s.settings.EmailTokenTTL)
		return err
	}

	s.log.Info("email changed", zap.String("user_id", userID.String()))
	return nil
}

// RequestPhoneChange sends a six digit code to newPhone, replacing any
// earlier pending phone change for the user.
func (s *Service) RequestPhoneChange(ctx context.Context, userID uuid.UUID, newPhone string) error {
	newPhone = strings.TrimSpace(newPhone)
	v := validation.New()
	v.Required("new_phone", newPhone)
	v.Phone("new_phone", newPhone)
	if err := v.Err(); err != nil {
		return err
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	n, err := utils.GenerateNumericCode(phoneCodeMin, phoneCodeMax)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	code := strconv.FormatInt(n, 10)
	entry := pendingPhone{
		NewPhone:  newPhone,
		Code:      code,
		ExpiresAt: s.now().Add(s.settings.PhoneCodeTTL),
	}
	if err := s.pending.SetWithTTL(ctx, phoneKey(userID), entry, s.retention(s.settings.PhoneCodeTTL)); err != nil {
		return fmt.Errorf("store phone verification: %w", err)
	}

	if err := s.notifier.SendPhoneCode(ctx, newPhone, code, s.settings.PhoneCodeTTL); err != nil {
		s.log.Error("failed to send verification code", zap.String("user_id", userID.String()), zap.Error(err))
		return apperrors.External("Failed to send verification code")
	}

	s.log.Info("phone verification requested", zap.String("user_id", userID.String()))
	return nil
}

// ConfirmPhone applies the pending phone change when code matches exactly.
// Like ConfirmEmail it claims the entry first; a mismatch or a failed update
// puts it back unless a newer request has replaced it meanwhile.
func (s *Service) ConfirmPhone(ctx context.Context, userID uuid.UUID, code string, rc audit.RequestContext) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperrors.ErrCodeRequired
	}

	key := phoneKey(userID)
	var entry pendingPhone
	found, err := s.pending.GetAndDelete(ctx, key, &entry)
	if err != nil {
		return fmt.Errorf("claim phone verification: %w", err)
	}
	if !found {
		return apperrors.ErrNoPendingVerification
	}
	if !s.now().Before(entry.ExpiresAt) {
		return apperrors.ErrCodeExpired
	}
	if code != entry.Code {
		s.release(ctx, key, entry, entry.ExpiresAt, s.settings.PhoneCodeTTL)
		return apperrors.ErrCodeMismatch
	}

	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		old := u.Phone
		u.Phone = entry.NewPhone
		u.LastProfileUpdate = s.now()
		if err := tx.Users().Save(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return s.audit.Record(ctx, tx.ChangeLogs(), u.ID, models.ChangePhoneVerification, "phone", old, entry.NewPhone, rc)
	})
	if err != nil {
		s.release(ctx, key, entry, entry.ExpiresAt, s.settings.PhoneCodeTTL)
		return err
	}

	s.log.Info("phone changed", zap.String("user_id", userID.String()))
	return nil
}

// release returns a claimed entry to the store for the rest of its
// retention. It never overwrites a newer entry under the same key.
func (s *Service) release(ctx context.Context, key string, entry interface{}, expiresAt time.Time, ttl time.Duration) {
	keep := expiresAt.Add(s.retention(ttl) - ttl).Sub(s.now())
	if keep <= 0 {
		return
	}
	if _, err := s.pending.SetNX(ctx, key, entry, keep); err != nil {
		s.log.Warn("failed to restore pending verification", zap.String("key", key), zap.Error(err))
	}
}
