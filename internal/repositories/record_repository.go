package repositories

import (
	"context"

	"github.com/google/uuid"
)

// RecordRepository stores records owned by a single user: household members,
// pets and vehicles. Lookups are scoped to the owner, so a record that
// belongs to someone else reads as ErrRecordNotFound.
type RecordRepository[T any] interface {
	Create(ctx context.Context, rec *T) error
	Get(ctx context.Context, userID, id uuid.UUID) (*T, error)

	// ListByUser returns the oldest records first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]T, error)
	Save(ctx context.Context, rec *T) error
	Delete(ctx context.Context, rec *T) error
}
