package repositories

import (
	"context"

	"hoaportal/internal/models"

	"github.com/google/uuid"
)

// ChangeLogLimit is how many entries a change log listing returns.
const ChangeLogLimit = 50

// ChangeLogRepository is append-only: entries are never updated or deleted.
type ChangeLogRepository interface {
	Create(ctx context.Context, entry *models.ProfileChangeLog) error

	// ListByUser returns the newest entries first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ProfileChangeLog, error)
}
