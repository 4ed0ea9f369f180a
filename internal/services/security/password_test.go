package security

import (
	"context"
	"testing"

	"hoaportal/internal/audit"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "ana@example.com")

	err := f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{
		CurrentPassword: testPassword,
		NewPassword:     "N3w!passphrase",
		ConfirmPassword: "N3w!passphrase",
	}, testRC)
	require.NoError(t, err)

	after := f.reload(t, u.ID)
	assert.False(t, utils.CheckPassword(after.Password, testPassword))
	assert.True(t, utils.CheckPassword(after.Password, "N3w!passphrase"))
	assert.Equal(t, u.TokenVersion+1, after.TokenVersion)

	logs := f.logsOf(models.ChangePassword)
	require.Len(t, logs, 1)
	assert.Equal(t, audit.Redacted, logs[0].OldValue)
	assert.Equal(t, audit.Redacted, logs[0].NewValue)
	assert.Equal(t, "203.0.113.9", logs[0].IPAddress)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "ana@example.com")

	err := f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "N3w!passphrase",
		ConfirmPassword: "N3w!passphrase",
	}, testRC)
	assert.ErrorIs(t, err, apperrors.ErrIncorrectPassword)

	after := f.reload(t, u.ID)
	assert.Equal(t, u.Password, after.Password)
	assert.Empty(t, f.store.Logs())
}

func TestChangePasswordValidation(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "ana@example.com")

	err := f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{
		CurrentPassword: testPassword,
		NewPassword:     "N3w!passphrase",
		ConfirmPassword: "different",
	}, testRC)
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "New passwords don't match", de.Message)

	err = f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{
		CurrentPassword: testPassword,
		NewPassword:     "weakpass",
		ConfirmPassword: "weakpass",
	}, testRC)
	de, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, de.Kind)
	assert.Contains(t, de.Fields, "new_password")
}

func TestChangePasswordChecksCurrentBeforeStrength(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "ana@example.com")

	err := f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "weakpass",
		ConfirmPassword: "weakpass",
	}, testRC)
	assert.ErrorIs(t, err, apperrors.ErrIncorrectPassword)

	err = f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "weakpass",
		ConfirmPassword: "weak",
	}, testRC)
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "New passwords don't match", de.Message)

	after := f.reload(t, u.ID)
	assert.Equal(t, u.Password, after.Password)
	assert.Empty(t, f.store.Logs())
}

func TestChangePasswordAuditFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "ana@example.com")
	f.store.FailChangeLogs = errBoom

	err := f.svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{
		CurrentPassword: testPassword,
		NewPassword:     "N3w!passphrase",
		ConfirmPassword: "N3w!passphrase",
	}, testRC)
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, utils.CheckPassword(f.reload(t, u.ID).Password, testPassword))
}
