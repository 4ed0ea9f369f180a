package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"hoaportal/internal/audit"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories/memory"
	"hoaportal/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Corr3ct!horse"

var testRC = audit.RequestContext{IP: "203.0.113.9", UserAgent: "test-agent"}

type sentEmail struct{ to, token string }
type sentCode struct{ to, code string }

type fakeNotifier struct {
	emails   []sentEmail
	codes    []sentCode
	emailErr error
}

func (n *fakeNotifier) SendEmailVerification(_ context.Context, to, token string, _ time.Duration) error {
	n.emails = append(n.emails, sentEmail{to, token})
	return n.emailErr
}

func (n *fakeNotifier) SendPhoneCode(_ context.Context, to, code string, _ time.Duration) error {
	n.codes = append(n.codes, sentCode{to, code})
	return nil
}

type fixture struct {
	svc      *Service
	store    *memory.Store
	pending  *memory.PendingStore
	notifier *fakeNotifier
	now      time.Time
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		notifier: &fakeNotifier{},
		now:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.pending = memory.NewPendingStore(clock)

	settings := Settings{
		TOTPIssuer:       "HOA Portal",
		EmailTokenTTL:    24 * time.Hour,
		PhoneCodeTTL:     10 * time.Minute,
		PendingRetention: 14 * 24 * time.Hour,
		PasswordCost:     bcrypt.MinCost,
	}
	f.svc = NewService(f.store, f.pending, f.notifier, audit.NewLogger(zap.NewNop(), clock), settings, zap.NewNop())
	f.svc.now = clock
	return f
}

func (f *fixture) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	hashed, err := utils.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: email, FullName: "Test Resident", Password: hashed, Phone: "555-000-1111"}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *models.User {
	t.Helper()
	u, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) logsOf(kind models.ChangeKind) []models.ProfileChangeLog {
	var out []models.ProfileChangeLog
	for _, l := range f.store.Logs() {
		if l.ChangeType == kind {
			out = append(out, l)
		}
	}
	return out
}

var errBoom = errors.New("boom")
