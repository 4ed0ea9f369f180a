package utils

import (
	"testing"
	"time"

	"hoaportal/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = TokenConfig{
	AccessSecret:  "access-secret",
	RefreshSecret: "refresh-secret",
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    time.Hour,
}

func TestGenerateAndParseTokens(t *testing.T) {
	claims := &models.UserClaims{UserID: uuid.New(), Email: "ana@example.com", Role: models.RoleMember, TokenVersion: 3}

	access, refresh, err := GenerateTokens(claims, testTokens, time.Now())
	require.NoError(t, err)

	_, parsed, err := ParseToken(access, testTokens.AccessSecret, models.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, parsed.UserID)
	assert.Equal(t, models.RoleMember, parsed.Role)
	assert.Equal(t, 3, parsed.TokenVersion)

	_, parsed, err = ParseToken(refresh, testTokens.RefreshSecret, models.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeRefresh, parsed.TokenType)
}

func TestParseTokenRejectsWrongTypeOrSecret(t *testing.T) {
	claims := &models.UserClaims{UserID: uuid.New(), Role: models.RoleGuest}
	access, refresh, err := GenerateTokens(claims, testTokens, time.Now())
	require.NoError(t, err)

	_, _, err = ParseToken(refresh, testTokens.RefreshSecret, models.TokenTypeAccess)
	assert.Error(t, err)

	_, _, err = ParseToken(access, testTokens.RefreshSecret, models.TokenTypeAccess)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	claims := &models.UserClaims{UserID: uuid.New(), Role: models.RoleGuest}
	access, _, err := GenerateTokens(claims, testTokens, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, _, err = ParseToken(access, testTokens.AccessSecret, models.TokenTypeAccess)
	assert.Error(t, err)
}
