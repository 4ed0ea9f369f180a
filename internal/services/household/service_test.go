package household

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
	svc := NewService(store, audit.NewLogger(zap.NewNop(), nil), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc, store
}

func createUser(t *testing.T, store *memory.Store, email string) uuid.UUID {
	t.Helper()
	u := &models.User{Email: email, FullName: "Resident", Password: "x"}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u.ID
}

func logsFor(store *memory.Store, field string) []models.ProfileChangeLog {
	var out []models.ProfileChangeLog
	for _, l := range store.Logs() {
		if l.FieldName == field {
			out = append(out, l)
		}
	}
	return out
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) *apperrors.DomainError {
	t.Helper()
	de, ok := apperrors.As(err)
	require.True(t, ok, "expected domain error, got %v", err)
	assert.Equal(t, kind, de.Kind)
	return de
}

func TestMemberLifecycleIsAudited(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := createUser(t, store, "ana@example.com")

	m, err := svc.Members.Create(ctx, userID, MemberInput{
		FullName:     ptr("  Maria Cruz "),
		Relationship: ptr("spouse"),
		DateOfBirth:  ptr("1990-02-14"),
	}, rc)
	require.NoError(t, err)
	assert.Equal(t, "Maria Cruz", m.FullName)
	require.NotNil(t, m.DateOfBirth)
	assert.Equal(t, 1990, m.DateOfBirth.Year())

	updated, err := svc.Members.Update(ctx, userID, m.ID, MemberInput{FullName: ptr("Maria Santos")}, rc)
	require.NoError(t, err)
	assert.Equal(t, "spouse", updated.Relationship)

	require.NoError(t, svc.Members.Delete(ctx, userID, m.ID, rc))
	list, err := svc.Members.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)

	logs := logsFor(store, "household_member")
	require.Len(t, logs, 3)
	assert.Equal(t, models.ChangeCreate, logs[0].ChangeType)
	assert.Equal(t, "Maria Cruz (spouse)", logs[0].NewValue)
	assert.Equal(t, models.ChangeUpdate, logs[1].ChangeType)
	assert.Equal(t, "Maria Cruz", logs[1].OldValue)
	assert.Equal(t, "Maria Santos (spouse)", logs[1].NewValue)
	assert.Equal(t, models.ChangeDelete, logs[2].ChangeType)
	assert.Equal(t, "Maria Santos (spouse)", logs[2].OldValue)
	assert.Empty(t, logs[2].NewValue)
	assert.Equal(t, "198.51.100.4", logs[2].IPAddress)
}

func TestMemberNamesUniquePerResident(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	ana := createUser(t, store, "ana@example.com")
	ben := createUser(t, store, "ben@example.com")

	in := MemberInput{FullName: ptr("Leo Cruz"), Relationship: ptr("child")}
	_, err := svc.Members.Create(ctx, ana, in, rc)
	require.NoError(t, err)

	_, err = svc.Members.Create(ctx, ana, in, rc)
	requireKind(t, err, apperrors.KindConflict)

	_, err = svc.Members.Create(ctx, ben, in, rc)
	assert.NoError(t, err)
}

func TestVehiclePlates(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	ana := createUser(t, store, "ana@example.com")
	ben := createUser(t, store, "ben@example.com")

	in := VehicleInput{
		LicensePlate: ptr(" abc 1234 "),
		Make:         ptr("Toyota"),
		Model:        ptr("Vios"),
		Year:         ptr(2020),
		Color:        ptr("Silver"),
	}
	v, err := svc.Vehicles.Create(ctx, ana, in, rc)
	require.NoError(t, err)
	assert.Equal(t, "ABC 1234", v.LicensePlate)
	assert.Equal(t, "car", v.VehicleType)

	_, err = svc.Vehicles.Create(ctx, ana, VehicleInput{
		LicensePlate: ptr("ABC 1234"),
		Make:         ptr("Honda"),
		Model:        ptr("City"),
		Year:         ptr(2021),
		Color:        ptr("Red"),
	}, rc)
	de := requireKind(t, err, apperrors.KindConflict)
	assert.Equal(t, "This license plate is already registered to your account", de.Message)

	_, err = svc.Vehicles.Create(ctx, ben, in, rc)
	require.NoError(t, err)

	_, err = svc.Vehicles.Update(ctx, ana, v.ID, VehicleInput{LicensePlate: ptr("abc_1234")}, rc)
	de = requireKind(t, err, apperrors.KindValidation)
	assert.Contains(t, de.Fields, "license_plate")

	_, err = svc.Vehicles.Update(ctx, ana, v.ID, VehicleInput{Color: ptr("Black")}, rc)
	require.NoError(t, err)

	logs := logsFor(store, "vehicle")
	require.Len(t, logs, 3)
	assert.Equal(t, "2020 Toyota Vios (ABC 1234)", logs[0].NewValue)
	assert.Equal(t, "2020 Toyota Vios", logs[2].OldValue)
	assert.Equal(t, "2020 Toyota Vios (ABC 1234)", logs[2].NewValue)
}

func TestVehicleYearRange(t *testing.T) {
	svc, store := newTestService(t)
	userID := createUser(t, store, "ana@example.com")

	in := VehicleInput{
		LicensePlate: ptr("NCR-123"),
		Make:         ptr("Ford"),
		Model:        ptr("Ranger"),
		Color:        ptr("Blue"),
		VehicleType:  ptr("truck"),
	}
	for _, year := range []int{1899, 2028} {
		in.Year = ptr(year)
		_, err := svc.Vehicles.Create(context.Background(), userID, in, rc)
		de := requireKind(t, err, apperrors.KindValidation)
		assert.Equal(t, "must be between 1900 and 2027", de.Fields["year"])
	}

	in.Year = ptr(2027)
	_, err := svc.Vehicles.Create(context.Background(), userID, in, rc)
	assert.NoError(t, err)
}

func TestPetValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := createUser(t, store, "ana@example.com")

	_, err := svc.Pets.Create(ctx, userID, PetInput{
		Name:              ptr("Bantay"),
		PetType:           ptr("dragon"),
		Weight:            ptr(0.0),
		VaccinationExpiry: ptr("05/01/2026"),
	}, rc)
	de := requireKind(t, err, apperrors.KindValidation)
	assert.Contains(t, de.Fields, "pet_type")
	assert.Contains(t, de.Fields, "weight")
	assert.Contains(t, de.Fields, "vaccination_expiry")

	p, err := svc.Pets.Create(ctx, userID, PetInput{Name: ptr("Bantay"), PetType: ptr("dog"), Weight: ptr(12.5)}, rc)
	require.NoError(t, err)
	assert.Equal(t, 12.5, *p.Weight)
	assert.Equal(t, "Bantay (dog)", logsFor(store, "pet")[0].NewValue)
}

func TestRecordsScopedToOwner(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	ana := createUser(t, store, "ana@example.com")
	ben := createUser(t, store, "ben@example.com")

	p, err := svc.Pets.Create(ctx, ana, PetInput{Name: ptr("Mingming"), PetType: ptr("cat")}, rc)
	require.NoError(t, err)

	_, err = svc.Pets.Get(ctx, ben, p.ID)
	requireKind(t, err, apperrors.KindNotFound)
	_, err = svc.Pets.Update(ctx, ben, p.ID, PetInput{Name: ptr("Stolen")}, rc)
	requireKind(t, err, apperrors.KindNotFound)
	err = svc.Pets.Delete(ctx, ben, p.ID, rc)
	requireKind(t, err, apperrors.KindNotFound)

	list, err := svc.Pets.List(ctx, ben)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.Pets.Get(ctx, ana, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mingming", got.Name)
}

func TestFailedAuditRollsBackWrite(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := createUser(t, store, "ana@example.com")

	store.FailChangeLogs = assert.AnError
	_, err := svc.Members.Create(ctx, userID, MemberInput{FullName: ptr("Leo Cruz"), Relationship: ptr("child")}, rc)
	assert.ErrorIs(t, err, assert.AnError)

	store.FailChangeLogs = nil
	list, err := svc.Members.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateForUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Pets.Create(context.Background(), uuid.New(), PetInput{Name: ptr("Bantay"), PetType: ptr("dog")}, rc)
	de := requireKind(t, err, apperrors.KindNotFound)
	assert.Equal(t, "User not found", de.Message)
}
