package security

import (
	"context"
	"fmt"

	"hoaportal/internal/audit"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories"
	"hoaportal/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SetupResult struct {
	Secret          string `json:"secret"`
	QRCode          string `json:"qr_code"`
	ManualEntryKey  string `json:"manual_entry_key"`
	ProvisioningURI string `json:"provisioning_uri"`
}

const (
	MethodTOTP   = "totp"
	MethodBackup = "backup_code"
)

type VerifyResult struct {
	Method               string `json:"method"`
	RemainingBackupCodes *int   `json:"remaining_backup_codes,omitempty"`
}

// BeginSetup generates a fresh secret. Nothing is stored until ConfirmSetup
// succeeds, so an abandoned setup leaves no trace.
func (s *Service) BeginSetup(ctx context.Context, userID uuid.UUID) (*SetupResult, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.TwoFactorEnabled {
		return nil, apperrors.ErrTwoFactorAlreadyEnabled
	}

	key, err := generateKey(s.settings.TOTPIssuer, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}
	qr, err := qrDataURI(key)
	if err != nil {
		return nil, err
	}

	return &SetupResult{
		Secret:          key.Secret(),
		QRCode:          qr,
		ManualEntryKey:  key.Secret(),
		ProvisioningURI: key.URL(),
	}, nil
}

// ConfirmSetup enables two-factor authentication when code is valid for
// secret and returns the new backup codes. On failure nothing changes.
func (s *Service) ConfirmSetup(ctx context.Context, userID uuid.UUID, secret, code string, rc audit.RequestContext) ([]string, error) {
	if secret == "" {
		return nil, apperrors.FieldError("secret", "Secret is required")
	}
	if code == "" {
		return nil, apperrors.FieldError("code", "Verification code is required")
	}
	if !validTOTP(code, secret, s.now()) {
		return nil, apperrors.ErrInvalidCode
	}

	codes, err := generateBackupCodes()
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if u.TwoFactorEnabled {
			return apperrors.ErrTwoFactorAlreadyEnabled
		}

		u.TOTPSecret = &secret
		u.TwoFactorEnabled = true
		u.BackupCodes = codes
		if err := tx.Users().Save(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return s.audit.Record(ctx, tx.ChangeLogs(), u.ID, models.ChangeSecurityUpdate, "two_factor_enabled", false, true, rc)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("two-factor authentication enabled", zap.String("user_id", userID.String()))
	return codes, nil
}

// Disable turns two-factor authentication off after re-checking the password.
func (s *Service) Disable(ctx context.Context, userID uuid.UUID, password string, rc audit.RequestContext) error {
	if password == "" {
		return apperrors.FieldError("password", "Password is required")
	}

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !u.TwoFactorEnabled {
			return apperrors.ErrTwoFactorNotEnabled
		}
		if !utils.CheckPassword(u.Password, password) {
			return apperrors.ErrIncorrectPassword
		}

		u.TOTPSecret = nil
		u.TwoFactorEnabled = false
		u.BackupCodes = nil
		if err := tx.Users().Save(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return s.audit.Record(ctx, tx.ChangeLogs(), u.ID, models.ChangeSecurityUpdate, "two_factor_enabled", true, false, rc)
	})
	if err != nil {
		return err
	}

	s.log.Info("two-factor authentication disabled", zap.String("user_id", userID.String()))
	return nil
}

// RegenerateBackupCodes replaces the whole backup code set.
func (s *Service) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID, rc audit.RequestContext) ([]string, error) {
	codes, err := generateBackupCodes()
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !u.TwoFactorEnabled {
			return apperrors.ErrTwoFactorNotEnabled
		}

		u.BackupCodes = codes
		if err := tx.Users().Save(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return s.audit.Record(ctx, tx.ChangeLogs(), u.ID, models.ChangeSecurityUpdate, "backup_codes", audit.Redacted, audit.Redacted, rc)
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// VerifyCode accepts a backup code, consuming it, or a current TOTP code.
func (s *Service) VerifyCode(ctx context.Context, userID uuid.UUID, code string) (*VerifyResult, error) {
	if code == "" {
		return nil, apperrors.FieldError("code", "Verification code is required")
	}

	var result *VerifyResult
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		result, err = s.verifyLocked(ctx, tx, u, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// verifyLocked checks code for a user already locked in tx.
func (s *Service) verifyLocked(ctx context.Context, tx repositories.Store, u *models.User, code string) (*VerifyResult, error) {
	if !u.TwoFactorEnabled || u.TOTPSecret == nil {
		return nil, apperrors.ErrTwoFactorNotEnabled
	}

	if remaining, ok := consumeBackupCode(u.BackupCodes, code); ok {
		u.BackupCodes = remaining
		if err := tx.Users().Save(ctx, u); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
		left := len(remaining)
		s.log.Info("backup code used", zap.String("user_id", u.ID.String()), zap.Int("remaining", left))
		return &VerifyResult{Method: MethodBackup, RemainingBackupCodes: &left}, nil
	}

	if validTOTP(code, *u.TOTPSecret, s.now()) {
		return &VerifyResult{Method: MethodTOTP}, nil
	}
	return nil, apperrors.ErrInvalidCode
}

// VerifyLogin checks a second factor inside a login attempt. It returns
// false instead of an error for a wrong code so callers can answer with a
// generic message.
func (s *Service) VerifyLogin(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	_, err := s.VerifyCode(ctx, userID, code)
	if err == nil {
		return true, nil
	}
	if de, ok := apperrors.As(err); ok && de.Kind != apperrors.KindInternal {
		return false, nil
	}
	return false, err
}
