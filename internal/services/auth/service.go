// Package auth handles registration, login with an optional second factor,
// token refresh and role changes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hoaportal/internal/audit"
	"hoaportal/internal/authz"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories"
	"hoaportal/internal/utils"
	"hoaportal/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TwoFactorVerifier checks a second factor during login. Backup codes are
// consumed by the implementation.
type TwoFactorVerifier interface {
	VerifyLogin(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}

type Service struct {
	store        repositories.Store
	twoFactor    TwoFactorVerifier
	audit        *audit.Logger
	tokens       utils.TokenConfig
	passwordCost int
	log          *zap.Logger
	now          func() time.Time
}

func NewService(store repositories.Store, twoFactor TwoFactorVerifier, auditLog *audit.Logger, tokens utils.TokenConfig, passwordCost int, log *zap.Logger) *Service {
	return &Service{
		store:        store,
		twoFactor:    twoFactor,
		audit:        auditLog,
		tokens:       tokens,
		passwordCost: passwordCost,
		log:          log,
		now:          time.Now,
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code"`
}

// LoginResult carries either a token pair or, when the account has two
// factor authentication and no code was sent, TwoFactorRequired.
type LoginResult struct {
	User              *models.User `json:"user,omitempty"`
	AccessToken       string       `json:"access_token,omitempty"`
	RefreshToken      string       `json:"refresh_token,omitempty"`
	TwoFactorRequired bool         `json:"two_factor_required,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *Service) Register(ctx context.Context, in models.CreateUserInput, rc audit.RequestContext) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.FullName)

	v := validation.New()
	v.Required("email", email)
	v.Email("email", email)
	v.Required("full_name", name)
	v.MaxLength("full_name", name, validation.MaxNameLength)
	v.Password("password", in.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password, s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		FullName: name,
		Password: hashed,
		Role:     models.RoleGuest,
		IsActive: true,
	}
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		taken, err := tx.Users().EmailTaken(ctx, email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.FieldError("email", "Email already registered")
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperrors.FieldError("email", "Email already registered")
			}
			return fmt.Errorf("create user: %w", err)
		}
		return s.audit.Record(ctx, tx.ChangeLogs(), user.ID, models.ChangeCreate, "account", "", user.Email, rc)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login authenticates by email and password. Every credential failure,
// including a wrong second factor, returns the same error.
func (s *Service) Login(ctx context.Context, in LoginInput, rc audit.RequestContext) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.log.Info("login failed: unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(user.Password, in.Password) || !user.IsActive {
		s.log.Info("login failed: bad password or inactive account", zap.String("user_id", user.ID.String()))
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		code := strings.TrimSpace(in.OTPCode)
		if code == "" {
			return &LoginResult{TwoFactorRequired: true}, nil
		}
		ok, err := s.twoFactor.VerifyLogin(ctx, user.ID, code)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.log.Info("login failed: bad second factor", zap.String("user_id", user.ID.String()))
			return nil, apperrors.ErrInvalidCredentials
		}
	}

	if err := s.audit.Record(ctx, s.store.ChangeLogs(), user.ID, models.ChangeLogin, "", "", "", rc); err != nil {
		return nil, err
	}

	access, refresh, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh token for a new pair as long as the user's
// token version has not moved since it was issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrTokenRequired
	}
	_, claims, err := utils.ParseToken(refreshToken, s.tokens.RefreshSecret, models.TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	user, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive || user.TokenVersion != claims.TokenVersion {
		return nil, apperrors.ErrTokenInvalid
	}

	access, refresh, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout revokes every token issued to the user so far.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Users().IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NotFound("User not found")
		}
		return fmt.Errorf("increment token version: %w", err)
	}
	return nil
}

// SetRole changes another user's role. Only admins may do this, and the
// target's existing tokens stop working so the new role applies at once.
func (s *Service) SetRole(ctx context.Context, actor *authz.Principal, targetID uuid.UUID, role models.Role, rc audit.RequestContext) (*models.User, error) {
	if !authz.HasRole(actor, models.RoleAdmin) {
		return nil, apperrors.Authorization("Admin role required")
	}
	if !role.Valid() {
		return nil, apperrors.FieldError("role", "must be one of: guest, member, admin")
	}

	var updated *models.User
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := tx.Users().GetByIDForUpdate(ctx, targetID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.NotFound("User not found")
			}
			return fmt.Errorf("load user: %w", err)
		}
		old := u.Role
		if old == role {
			updated = u
			return nil
		}

		u.Role = role
		u.TokenVersion++
		if err := tx.Users().Save(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		if err := s.audit.Record(ctx, tx.ChangeLogs(), u.ID, models.ChangeUpdate, "role", string(old), string(role), rc); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("role changed",
		zap.String("actor_id", actor.ID.String()),
		zap.String("user_id", targetID.String()),
		zap.String("role", string(role)),
	)
	return updated, nil
}

// ListUsers returns one page of accounts for administrators.
func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]*models.User, int64, error) {
	users, total, err := s.store.Users().List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *Service) issue(u *models.User) (string, string, error) {
	access, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       u.ID,
		Email:        u.Email,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}, s.tokens, s.now())
	if err != nil {
		s.log.Error("failed to generate tokens", zap.Error(err))
		return "", "", fmt.Errorf("generate tokens: %w", err)
	}
	return access, refresh, nil
}
