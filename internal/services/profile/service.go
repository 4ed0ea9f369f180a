// Package profile reads and updates resident profiles section by section,
// logging one change entry per modified field.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hoaportal/internal/audit"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ErrBlockLotTaken  = "Block and lot already assigned to another resident"
	ErrUnitTaken      = "Unit number already assigned to another resident"
	ErrResidenceTaken = "Residence already assigned to another resident"

	exportLogLimit = 100
)

type Service struct {
	store repositories.Store
	audit *audit.Logger
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store repositories.Store, auditLog *audit.Logger, log *zap.Logger) *Service {
	return &Service{store: store, audit: auditLog, log: log, now: time.Now}
}

// View is a profile as returned to its owner.
type View struct {
	*models.User
	ProfileCompletion int `json:"profile_completion"`
}

func newView(u *models.User) *View {
	return &View{User: u, ProfileCompletion: u.CompletionPercentage()}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*View, error) {
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return newView(u), nil
}

// ChangeLogs returns the user's most recent change log entries, newest first.
func (s *Service) ChangeLogs(ctx context.Context, userID uuid.UUID) ([]models.ProfileChangeLog, error) {
	logs, err := s.store.ChangeLogs().ListByUser(ctx, userID, repositories.ChangeLogLimit)
	if err != nil {
		return nil, fmt.Errorf("list change logs: %w", err)
	}
	return logs, nil
}

type CompletionStatus struct {
	OverallPercentage int      `json:"overall_percentage"`
	MissingFields     []string `json:"missing_fields"`
	Suggestions       []string `json:"suggestions"`
}

func (s *Service) CompletionStatus(ctx context.Context, userID uuid.UUID) (*CompletionStatus, error) {
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}

	status := &CompletionStatus{
		OverallPercentage: u.CompletionPercentage(),
		MissingFields:     []string{},
		Suggestions:       []string{},
	}
	missing := func(field, suggestion string) {
		status.MissingFields = append(status.MissingFields, field)
		status.Suggestions = append(status.Suggestions, suggestion)
	}
	if !u.HasResidence() {
		missing("residence", "Add your block and lot or unit number for accurate HOA records")
	}
	if u.EmergencyContact == "" {
		missing("emergency_contact", "Add emergency contact information for safety")
	}
	if u.Phone == "" {
		missing("phone", "Add phone number for important communications")
	}
	if len(u.NotificationPreferences) == 0 {
		status.Suggestions = append(status.Suggestions, "Customize your notification preferences")
	}

	members, err := s.store.HouseholdMembers().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list household members: %w", err)
	}
	if len(members) == 0 {
		status.Suggestions = append(status.Suggestions, "Consider adding household members to help with community building")
	}
	return status, nil
}

type Export struct {
	Profile          *View                     `json:"basic_info"`
	HouseholdMembers []models.HouseholdMember  `json:"household_members"`
	Pets             []models.Pet              `json:"pets"`
	Vehicles         []models.Vehicle          `json:"vehicles"`
	ChangeLogs       []models.ProfileChangeLog `json:"change_logs"`
	ExportDate       time.Time                 `json:"export_date"`
}

// ExportData returns everything stored about the user and records the export.
func (s *Service) ExportData(ctx context.Context, userID uuid.UUID, rc audit.RequestContext) (*Export, error) {
	var out *Export
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return notFound(err)
		}
		out = &Export{Profile: newView(u), ExportDate: s.now()}
		if out.HouseholdMembers, err = tx.HouseholdMembers().ListByUser(ctx, userID); err != nil {
			return fmt.Errorf("list household members: %w", err)
		}
		if out.Pets, err = tx.Pets().ListByUser(ctx, userID); err != nil {
			return fmt.Errorf("list pets: %w", err)
		}
		if out.Vehicles, err = tx.Vehicles().ListByUser(ctx, userID); err != nil {
			return fmt.Errorf("list vehicles: %w", err)
		}
		if out.ChangeLogs, err = tx.ChangeLogs().ListByUser(ctx, userID, exportLogLimit); err != nil {
			return fmt.Errorf("list change logs: %w", err)
		}
		return s.audit.Record(ctx, tx.ChangeLogs(), userID, models.ChangeUpdate, "data_export", "", "Profile data exported", rc)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type checkFunc func(ctx context.Context, tx repositories.Store, u *models.User) error

// apply runs a section update: lock the row, check, snapshot the submitted
// fields, write them, then log each field whose value actually changed.
func (s *Service) apply(ctx context.Context, userID uuid.UUID, cs changeSet, check checkFunc, rc audit.RequestContext) (*models.User, error) {
	var updated *models.User
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		u, err := tx.Users().GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFound(err)
		}
		if check != nil {
			if err := check(ctx, tx, u); err != nil {
				return err
			}
		}

		before := make([]string, len(cs))
		for i, c := range cs {
			before[i] = c.get(u)
		}
		for _, c := range cs {
			c.set(u)
		}
		u.LastProfileUpdate = s.now()

		if err := tx.Users().Save(ctx, u); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperrors.Conflict(ErrResidenceTaken)
			}
			return fmt.Errorf("save user: %w", err)
		}

		for i, c := range cs {
			after := c.get(u)
			if after == before[i] {
				continue
			}
			if err := s.audit.Record(ctx, tx.ChangeLogs(), u.ID, models.ChangeUpdate, c.name, before[i], after, rc); err != nil {
				return err
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func notFound(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NotFound("User not found")
	}
	return fmt.Errorf("load user: %w", err)
}
