package utils

import (
	"errors"
	"time"

	"hoaportal/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "hoaportal-api"

// TokenConfig carries the signing secrets and lifetimes for a token pair.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// GenerateTokens signs an access token and a refresh token for the given user claims.
func GenerateTokens(claims *models.UserClaims, cfg TokenConfig, now time.Time) (accessToken string, refreshToken string, err error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return "", "", errors.New("JWT secret not configured")
	}

	accessToken, err = sign(claims, models.TokenTypeAccess, cfg.AccessSecret, now, cfg.AccessTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = sign(claims, models.TokenTypeRefresh, cfg.RefreshSecret, now, cfg.RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func sign(claims *models.UserClaims, tokenType, secret string, now time.Time, ttl time.Duration) (string, error) {
	c := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   claims.UserID.String(),
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		TokenVersion: claims.TokenVersion,
		TokenType:    tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseToken parses and validates a JWT token string signed with secret.
// It returns the token if valid, or an error if something is wrong.
func ParseToken(tokenStr, secret, expectedType string) (*jwt.Token, *models.UserClaims, error) {
	if secret == "" {
		return nil, nil, errors.New("JWT secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}
	if claims.TokenType != expectedType {
		return nil, nil, errors.New("unexpected token type")
	}

	return token, claims, nil
}
