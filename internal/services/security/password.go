package security

import (
	"context"
	"fmt"

	"hoaportal/internal/audit"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories"
	"hoaportal/internal/utils"
	"hoaportal/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePassword replaces the password hash and revokes every issued token.
// Checks run in order: confirmation match, current password, then strength.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput, rc audit.RequestContext) error {
	v := validation.New()
	v.Required("current_password", in.CurrentPassword)
	v.Required("new_password", in.NewPassword)
	if err := v.Err(); err != nil {
		return err
	}
	if in.NewPassword != in.ConfirmPassword {
		return apperrors.FieldError("confirm_password", "New passwords don't match")
	}

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !utils.CheckPassword(u.Password, in.CurrentPassword) {
			return apperrors.ErrIncorrectPassword
		}
		v.Password("new_password", in.NewPassword)
		if err := v.Err(); err != nil {
			return err
		}

		hashed, err := utils.HashPassword(in.NewPassword, s.settings.PasswordCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.Password = hashed
		u.TokenVersion++
		u.LastProfileUpdate = s.now()
		if err := tx.Users().Save(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return s.audit.Record(ctx, tx.ChangeLogs(), u.ID, models.ChangePassword, "password", audit.Redacted, audit.Redacted, rc)
	})
	if err != nil {
		return err
	}

	s.log.Info("password changed", zap.String("user_id", userID.String()))
	return nil
}
