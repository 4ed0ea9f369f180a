package profile

import (
	"context"
	"testing"
	"time"

	"hoaportal/internal/audit"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var rc = audit.RequestContext{IP: "198.51.100.4", UserAgent: "test"}

func ptr[T any](v T) *T { return &v }

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewService(store, audit.NewLogger(zap.NewNop(), nil), zap.NewNop()), store
}

func createUser(t *testing.T, store *memory.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, FullName: "Resident", Password: "x", ThemePreference: "light"}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func fieldsLogged(store *memory.Store, userID uuid.UUID) []string {
	var names []string
	for _, l := range store.Logs() {
		if l.UserID == userID && l.ChangeType == models.ChangeUpdate {
			names = append(names, l.FieldName)
		}
	}
	return names
}

func TestOnlyChangedFieldsAreLogged(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "ana@example.com")

	_, err := svc.UpdateSystem(context.Background(), u.ID, SystemInput{
		ThemePreference: ptr("dark"),
		TimezoneSetting: ptr("UTC"),
	}, rc)
	require.NoError(t, err)

	logs := store.Logs()
	require.Len(t, logs, 2)

	_, err = svc.UpdateSystem(context.Background(), u.ID, SystemInput{
		ThemePreference: ptr("dark"),
		TimezoneSetting: ptr("America/New_York"),
	}, rc)
	require.NoError(t, err)

	assert.Equal(t, []string{"theme_preference", "timezone_setting", "timezone_setting"}, fieldsLogged(store, u.ID))
	last := store.Logs()[2]
	assert.Equal(t, "UTC", last.OldValue)
	assert.Equal(t, "America/New_York", last.NewValue)
	assert.Equal(t, "198.51.100.4", last.IPAddress)
}

func TestAbsentFieldsUntouched(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "ana@example.com")

	updated, err := svc.UpdateBasic(context.Background(), u.ID, BasicInput{Phone: ptr("555-123-4567")}, rc)
	require.NoError(t, err)
	assert.Equal(t, "Resident", updated.FullName)
	assert.Equal(t, "555-123-4567", updated.Phone)
	assert.Equal(t, []string{"phone"}, fieldsLogged(store, u.ID))
}

func TestResidenceScenario(t *testing.T) {
	svc, store := newTestService(t)
	u1 := createUser(t, store, "u1@example.com")
	u2 := createUser(t, store, "u2@example.com")
	ctx := context.Background()

	_, err := svc.UpdateResidence(ctx, u1.ID, ResidenceInput{Block: ptr("A"), Lot: ptr("12")}, rc)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"block", "lot"}, fieldsLogged(store, u1.ID))

	_, err = svc.UpdateResidence(ctx, u2.ID, ResidenceInput{Block: ptr("A"), Lot: ptr("12"), ParkingSpaces: ptr(2)}, rc)
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindConflict, de.Kind)
	assert.Equal(t, ErrBlockLotTaken, de.Message)

	after, err := store.Users().GetByID(ctx, u2.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Block)
	assert.Empty(t, after.Lot)
	assert.Zero(t, after.ParkingSpaces)
	assert.Empty(t, fieldsLogged(store, u2.ID))
}

func TestResidenceSameLocatorForSameUser(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "u1@example.com")
	ctx := context.Background()

	_, err := svc.UpdateResidence(ctx, u.ID, ResidenceInput{Block: ptr("A"), Lot: ptr("12")}, rc)
	require.NoError(t, err)
	_, err = svc.UpdateResidence(ctx, u.ID, ResidenceInput{Block: ptr("A"), Lot: ptr("12"), UnitNumber: ptr("#4")}, rc)
	require.NoError(t, err)
	assert.Equal(t, []string{"block", "lot", "unit_number"}, fieldsLogged(store, u.ID))
}

func TestResidenceUnitConflict(t *testing.T) {
	svc, store := newTestService(t)
	u1 := createUser(t, store, "u1@example.com")
	u2 := createUser(t, store, "u2@example.com")
	ctx := context.Background()

	_, err := svc.UpdateResidence(ctx, u1.ID, ResidenceInput{UnitNumber: ptr("7B")}, rc)
	require.NoError(t, err)

	_, err = svc.UpdateResidence(ctx, u2.ID, ResidenceInput{UnitNumber: ptr("7B")}, rc)
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, ErrUnitTaken, de.Message)
}

func TestResidenceValidation(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "u1@example.com")
	ctx := context.Background()

	_, err := svc.UpdateResidence(ctx, u.ID, ResidenceInput{
		Block:         ptr("A/1"),
		PropertyType:  ptr("condo"),
		ParkingSpaces: ptr(-1),
		MoveInDate:    ptr("07/04/2023"),
	}, rc)
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, de.Fields, "block")
	assert.Contains(t, de.Fields, "property_type")
	assert.Contains(t, de.Fields, "parking_spaces")
	assert.Contains(t, de.Fields, "move_in_date")

	_, err = svc.UpdateResidence(ctx, u.ID, ResidenceInput{Block: ptr("A")}, rc)
	de, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, de.Fields, "lot")
}

func TestMoveInDate(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "u1@example.com")
	ctx := context.Background()

	updated, err := svc.UpdateResidence(ctx, u.ID, ResidenceInput{MoveInDate: ptr("2023-07-04")}, rc)
	require.NoError(t, err)
	require.NotNil(t, updated.MoveInDate)
	assert.Equal(t, time.July, updated.MoveInDate.Month())

	updated, err = svc.UpdateResidence(ctx, u.ID, ResidenceInput{MoveInDate: ptr("")}, rc)
	require.NoError(t, err)
	assert.Nil(t, updated.MoveInDate)

	logs := store.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "", logs[0].OldValue)
	assert.Equal(t, "2023-07-04", logs[0].NewValue)
	assert.Equal(t, "2023-07-04", logs[1].OldValue)
	assert.Equal(t, "", logs[1].NewValue)
}

func TestNotificationPreferences(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "u1@example.com")

	prefs := models.JSON{"events": true, "maintenance": false}
	_, err := svc.UpdateNotifications(context.Background(), u.ID, NotificationsInput{
		SMSNotifications:        ptr(true),
		NotificationPreferences: &prefs,
	}, rc)
	require.NoError(t, err)

	logs := store.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, `{"events":true,"maintenance":false}`, logs[1].NewValue)
}

func TestUpdateAuditFailureRollsBack(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "u1@example.com")
	store.FailChangeLogs = assert.AnError

	_, err := svc.UpdateEmergency(context.Background(), u.ID, EmergencyInput{EmergencyContact: ptr("Ben")}, rc)
	assert.ErrorIs(t, err, assert.AnError)

	after, err := store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, after.EmergencyContact)
}

func TestPrivacyValidation(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "u1@example.com")

	_, err := svc.UpdatePrivacy(context.Background(), u.ID, PrivacyInput{ProfileVisibility: ptr("everyone")}, rc)
	_, ok := apperrors.As(err)
	assert.True(t, ok)

	updated, err := svc.UpdatePrivacy(context.Background(), u.ID, PrivacyInput{IsDirectoryVisible: ptr(true)}, rc)
	require.NoError(t, err)
	assert.True(t, updated.IsDirectoryVisible)
}

func TestChangeLogsAndExport(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "u1@example.com")
	ctx := context.Background()

	_, err := svc.UpdateBasic(ctx, u.ID, BasicInput{FullName: ptr("Ana Cruz")}, rc)
	require.NoError(t, err)

	logs, err := svc.ChangeLogs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "full_name", logs[0].FieldName)

	pet := &models.Pet{Record: models.Record{UserID: u.ID}, Name: "Bantay", PetType: "dog"}
	require.NoError(t, store.Pets().Create(ctx, pet))

	export, err := svc.ExportData(ctx, u.ID, rc)
	require.NoError(t, err)
	assert.Equal(t, "Ana Cruz", export.Profile.FullName)
	assert.Len(t, export.ChangeLogs, 1)
	require.Len(t, export.Pets, 1)
	assert.Equal(t, "Bantay", export.Pets[0].Name)
	assert.NotNil(t, export.HouseholdMembers)
	assert.NotNil(t, export.Vehicles)

	logs, err = svc.ChangeLogs(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Contains(t, []string{logs[0].FieldName, logs[1].FieldName}, "data_export")
}

const householdSuggestion = "Consider adding household members to help with community building"

func TestCompletionStatus(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "u1@example.com")

	status, err := svc.CompletionStatus(context.Background(), u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"residence", "emergency_contact", "phone"}, status.MissingFields)
	assert.Contains(t, status.Suggestions, "Customize your notification preferences")
	assert.Contains(t, status.Suggestions, householdSuggestion)

	member := &models.HouseholdMember{Record: models.Record{UserID: u.ID}, FullName: "Leo Cruz", Relationship: "child"}
	require.NoError(t, store.HouseholdMembers().Create(context.Background(), member))
	status, err = svc.CompletionStatus(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotContains(t, status.Suggestions, householdSuggestion)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNotFound, de.Kind)
}

func TestUpdateFinancial(t *testing.T) {
	svc, store := newTestService(t)
	u := createUser(t, store, "ana@example.com")
	ctx := context.Background()

	_, err := svc.UpdateFinancial(ctx, u.ID, FinancialInput{
		PreferredPaymentMethod: ptr("cash"),
		WalletAccountNumber:    ptr("123456789012345678901"),
	}, rc)
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, de.Fields, "preferred_payment_method")
	assert.Contains(t, de.Fields, "wallet_account_number")

	updated, err := svc.UpdateFinancial(ctx, u.ID, FinancialInput{
		AutoPayEnabled:      ptr(true),
		WalletProvider:      ptr("maya"),
		WalletAccountNumber: ptr(" 09171234567 "),
	}, rc)
	require.NoError(t, err)
	assert.True(t, updated.AutoPayEnabled)
	assert.Equal(t, "09171234567", updated.WalletAccountNumber)
	assert.ElementsMatch(t, []string{"auto_pay_enabled", "wallet_provider", "wallet_account_number"}, fieldsLogged(store, u.ID))
}
