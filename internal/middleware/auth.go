// Package middleware provides the fiber middleware for authentication,
// role checks and request logging.
package middleware

import (
	"context"
	"strings"

	"hoaportal/internal/authz"
	"hoaportal/internal/models"
	"hoaportal/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenVersions reports a user's current token version. Tokens carrying an
// older version have been revoked.
type TokenVersions interface {
	TokenVersion(ctx context.Context, id uuid.UUID) (int, error)
}

// AuthMiddleware validates bearer access tokens and stores the claims in
// the request context under "claims".
type AuthMiddleware struct {
	secret   string
	versions TokenVersions
	log      *zap.Logger
}

func NewAuthMiddleware(secret string, versions TokenVersions, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{secret: secret, versions: versions, log: log}
}

// Handler rejects the request with 401 unless it carries a valid access
// token whose version matches the user's current one.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "Missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "Invalid authorization format")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	_, claims, err := utils.ParseToken(tokenString, m.secret, models.TokenTypeAccess)
	if err != nil {
		m.log.Debug("token rejected", zap.Error(err))
		return utils.Unauthorized(c, "Invalid or expired token")
	}

	current, err := m.versions.TokenVersion(c.UserContext(), claims.UserID)
	if err != nil {
		m.log.Debug("token version lookup failed", zap.String("user_id", claims.UserID.String()), zap.Error(err))
		return utils.Unauthorized(c, "Invalid or expired token")
	}
	if claims.TokenVersion != current {
		return utils.Unauthorized(c, "Session expired")
	}

	c.Locals("claims", claims)
	return c.Next()
}

// RequireRole allows the request through only for principals holding at
// least min. It must run after Handler.
func RequireRole(min models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if !authz.HasRole(authz.FromClaims(claims), min) {
			return utils.Forbidden(c, "Insufficient permissions")
		}
		return c.Next()
	}
}
