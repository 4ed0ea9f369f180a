// Package household manages the members, pets and vehicles a resident
// registers under their account. Every write is logged to the change log.
package household

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hoaportal/internal/audit"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories"
	"hoaportal/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Members  *Records[models.HouseholdMember, MemberInput]
	Pets     *Records[models.Pet, PetInput]
	Vehicles *Records[models.Vehicle, VehicleInput]

	store repositories.Store
	audit *audit.Logger
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store repositories.Store, auditLog *audit.Logger, log *zap.Logger) *Service {
	s := &Service{store: store, audit: auditLog, log: log, now: time.Now}

	s.Members = &Records[models.HouseholdMember, MemberInput]{svc: s, kind: kind[models.HouseholdMember]{
		field:     "household_member",
		repo:      repositories.Store.HouseholdMembers,
		create:    func(userID uuid.UUID) *models.HouseholdMember { return &models.HouseholdMember{Record: models.Record{UserID: userID}} },
		validate:  validateMember,
		clash:     (*models.HouseholdMember).Clashes,
		previous:  func(m *models.HouseholdMember) string { return m.FullName },
		missing:   "Household member not found",
		duplicate: "A household member with this name is already registered",
	}}
	s.Pets = &Records[models.Pet, PetInput]{svc: s, kind: kind[models.Pet]{
		field:     "pet",
		repo:      repositories.Store.Pets,
		create:    func(userID uuid.UUID) *models.Pet { return &models.Pet{Record: models.Record{UserID: userID}} },
		validate:  validatePet,
		previous:  func(p *models.Pet) string { return p.Name },
		missing:   "Pet not found",
		duplicate: "Pet is already registered",
	}}
	s.Vehicles = &Records[models.Vehicle, VehicleInput]{svc: s, kind: kind[models.Vehicle]{
		field: "vehicle",
		repo:  repositories.Store.Vehicles,
		create: func(userID uuid.UUID) *models.Vehicle {
			return &models.Vehicle{Record: models.Record{UserID: userID}, VehicleType: "car"}
		},
		validate:  validateVehicle,
		clash:     (*models.Vehicle).Clashes,
		previous:  (*models.Vehicle).Summary,
		missing:   "Vehicle not found",
		duplicate: "This license plate is already registered to your account",
	}}
	return s
}

// Input merges the submitted fields of a request into a record.
type Input[T any] interface {
	apply(v *validation.Validator, rec *T)
}

// kind describes one record type. Change log values use the record's
// String form; updates log the previous name as the old value.
type kind[T any] struct {
	field     string
	repo      func(repositories.Store) repositories.RecordRepository[T]
	create    func(userID uuid.UUID) *T
	validate  func(v *validation.Validator, rec *T, now time.Time)
	clash     func(a, b *T) bool
	previous  func(rec *T) string
	missing   string
	duplicate string
}

// Records exposes owner-scoped CRUD for one record type. A record owned by
// another user is reported as not found.
type Records[T any, I Input[T]] struct {
	svc  *Service
	kind kind[T]
}

func (r *Records[T, I]) List(ctx context.Context, userID uuid.UUID) ([]T, error) {
	recs, err := r.kind.repo(r.svc.store).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", r.kind.field, err)
	}
	return recs, nil
}

func (r *Records[T, I]) Get(ctx context.Context, userID, id uuid.UUID) (*T, error) {
	rec, err := r.kind.repo(r.svc.store).Get(ctx, userID, id)
	if err != nil {
		return nil, r.fail(err)
	}
	return rec, nil
}

func (r *Records[T, I]) Create(ctx context.Context, userID uuid.UUID, in I, rc audit.RequestContext) (*T, error) {
	rec := r.kind.create(userID)
	if err := r.merge(in, rec); err != nil {
		return nil, err
	}

	err := r.svc.store.WithTx(ctx, func(tx repositories.Store) error {
		repo := r.kind.repo(tx)
		if err := r.unique(ctx, repo, userID, rec); err != nil {
			return err
		}
		if err := repo.Create(ctx, rec); err != nil {
			return r.fail(err)
		}
		return r.svc.audit.Record(ctx, tx.ChangeLogs(), userID, models.ChangeCreate, r.kind.field, "", describe(rec), rc)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Records[T, I]) Update(ctx context.Context, userID, id uuid.UUID, in I, rc audit.RequestContext) (*T, error) {
	var updated *T
	err := r.svc.store.WithTx(ctx, func(tx repositories.Store) error {
		repo := r.kind.repo(tx)
		rec, err := repo.Get(ctx, userID, id)
		if err != nil {
			return r.fail(err)
		}
		previous := r.kind.previous(rec)
		if err := r.merge(in, rec); err != nil {
			return err
		}
		if err := r.unique(ctx, repo, userID, rec); err != nil {
			return err
		}
		if err := repo.Save(ctx, rec); err != nil {
			return r.fail(err)
		}
		updated = rec
		return r.svc.audit.Record(ctx, tx.ChangeLogs(), userID, models.ChangeUpdate, r.kind.field, previous, describe(rec), rc)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Records[T, I]) Delete(ctx context.Context, userID, id uuid.UUID, rc audit.RequestContext) error {
	return r.svc.store.WithTx(ctx, func(tx repositories.Store) error {
		repo := r.kind.repo(tx)
		rec, err := repo.Get(ctx, userID, id)
		if err != nil {
			return r.fail(err)
		}
		if err := repo.Delete(ctx, rec); err != nil {
			return r.fail(err)
		}
		return r.svc.audit.Record(ctx, tx.ChangeLogs(), userID, models.ChangeDelete, r.kind.field, describe(rec), "", rc)
	})
}

func (r *Records[T, I]) merge(in I, rec *T) error {
	v := validation.New()
	in.apply(v, rec)
	r.kind.validate(v, rec, r.svc.now())
	return v.Err()
}

// unique rejects a record that collides with another of the owner's. The
// unique indexes enforce the same rule when two requests race past it.
func (r *Records[T, I]) unique(ctx context.Context, repo repositories.RecordRepository[T], userID uuid.UUID, rec *T) error {
	if r.kind.clash == nil {
		return nil
	}
	existing, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list %s records: %w", r.kind.field, err)
	}
	for i := range existing {
		if r.kind.clash(rec, &existing[i]) {
			return apperrors.Conflict(r.kind.duplicate)
		}
	}
	return nil
}

func (r *Records[T, I]) fail(err error) error {
	switch {
	case errors.Is(err, repositories.ErrRecordNotFound):
		return apperrors.NotFound(r.kind.missing)
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.NotFound("User not found")
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.Conflict(r.kind.duplicate)
	default:
		return fmt.Errorf("write %s: %w", r.kind.field, err)
	}
}

func describe(rec any) string {
	if s, ok := rec.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}
