package auth

import (
	"context"
	"testing"
	"time"

	"hoaportal/internal/audit"
	"hoaportal/internal/authz"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories/memory"
	"hoaportal/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const password = "Sunny#Day42"

var rc = audit.RequestContext{IP: "192.0.2.10", UserAgent: "test"}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyLogin(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, userID, code)
	return args.Bool(0), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *memory.Store, *mockVerifier) {
	t.Helper()
	store := memory.NewStore()
	verifier := new(mockVerifier)
	tokens := utils.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}
	svc := NewService(store, verifier, audit.NewLogger(zap.NewNop(), nil), tokens, bcrypt.MinCost, zap.NewNop())
	return svc, store, verifier
}

func register(t *testing.T, svc *Service, email string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), models.CreateUserInput{Email: email, FullName: "Ana Cruz", Password: password}, rc)
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	svc, store, _ := newTestService(t)

	u := register(t, svc, "  Ana@Example.com ")
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, models.RoleGuest, u.Role)
	assert.NotEqual(t, password, u.Password)
	assert.True(t, utils.CheckPassword(u.Password, password))

	logs := store.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, models.ChangeCreate, logs[0].ChangeType)

	_, err := svc.Register(context.Background(), models.CreateUserInput{Email: "ANA@example.com", FullName: "Other", Password: password}, rc)
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, de.Fields, "email")
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), models.CreateUserInput{Email: "nope", Password: "short"}, rc)
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, de.Kind)
	assert.Contains(t, de.Fields, "email")
	assert.Contains(t, de.Fields, "full_name")
	assert.Contains(t, de.Fields, "password")
}

func TestLogin(t *testing.T) {
	svc, store, _ := newTestService(t)
	u := register(t, svc, "ana@example.com")

	res, err := svc.Login(context.Background(), LoginInput{Email: "ANA@example.com", Password: password}, rc)
	require.NoError(t, err)
	assert.False(t, res.TwoFactorRequired)
	assert.NotEmpty(t, res.AccessToken)

	_, claims, err := utils.ParseToken(res.AccessToken, "access-secret", models.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, models.RoleGuest, claims.Role)

	logs := store.Logs()
	assert.Equal(t, models.ChangeLogin, logs[len(logs)-1].ChangeType)
}

func TestLoginGenericFailure(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "ana@example.com")

	_, errWrongPassword := svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: "Wrong#Pass1"}, rc)
	_, errUnknown := svc.Login(context.Background(), LoginInput{Email: "bob@example.com", Password: password}, rc)

	assert.ErrorIs(t, errWrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknown.Error())
}

func TestLoginSecondFactor(t *testing.T) {
	svc, store, verifier := newTestService(t)
	u := register(t, svc, "ana@example.com")

	stored, err := store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	stored.TwoFactorEnabled = true
	require.NoError(t, store.Users().Save(context.Background(), stored))
	verifier.On("VerifyLogin", mock.Anything, u.ID, "000000").Return(false, nil).Once()
	verifier.On("VerifyLogin", mock.Anything, u.ID, "A1B2C3D4").Return(true, nil).Once()
	verifier.On("VerifyLogin", mock.Anything, u.ID, "A1B2C3D4").Return(false, nil).Once()

	res, err := svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: password}, rc)
	require.NoError(t, err)
	assert.True(t, res.TwoFactorRequired)
	assert.Empty(t, res.AccessToken)
	verifier.AssertNotCalled(t, "VerifyLogin", mock.Anything, mock.Anything, mock.Anything)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: password, OTPCode: "000000"}, rc)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	res, err = svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: password, OTPCode: "A1B2C3D4"}, rc)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: password, OTPCode: "A1B2C3D4"}, rc)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	verifier.AssertExpectations(t)
}

func TestRefreshAndLogout(t *testing.T) {
	svc, _, _ := newTestService(t)
	u := register(t, svc, "ana@example.com")
	ctx := context.Background()

	res, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: password}, rc)
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.Refresh(ctx, res.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	require.NoError(t, svc.Logout(ctx, u.ID))
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrTokenRequired)
}

func TestSetRole(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	target := register(t, svc, "ana@example.com")
	admin := &authz.Principal{ID: uuid.New(), Role: models.RoleAdmin}
	member := &authz.Principal{ID: uuid.New(), Role: models.RoleMember}

	_, err := svc.SetRole(ctx, member, target.ID, models.RoleAdmin, rc)
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindAuthorization, de.Kind)

	_, err = svc.SetRole(ctx, admin, target.ID, models.Role("owner"), rc)
	de, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, de.Kind)

	before, err := store.Users().TokenVersion(ctx, target.ID)
	require.NoError(t, err)

	updated, err := svc.SetRole(ctx, admin, target.ID, models.RoleMember, rc)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, updated.Role)

	after, err := store.Users().TokenVersion(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	logs := store.Logs()
	last := logs[len(logs)-1]
	assert.Equal(t, "role", last.FieldName)
	assert.Equal(t, "guest", last.OldValue)
	assert.Equal(t, "member", last.NewValue)

	_, err = svc.SetRole(ctx, admin, uuid.New(), models.RoleMember, rc)
	de, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNotFound, de.Kind)
}
