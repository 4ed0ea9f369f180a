package repositories

import (
	"context"

	"hoaportal/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type changeLogRepository struct {
	db *gorm.DB
}

func (r *changeLogRepository) Create(ctx context.Context, entry *models.ProfileChangeLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *changeLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ProfileChangeLog, error) {
	logs := []models.ProfileChangeLog{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, translate(err)
	}
	return logs, nil
}
