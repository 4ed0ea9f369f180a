package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type recordRepository[T any] struct {
	db *gorm.DB
}

func (r *recordRepository[T]) Create(ctx context.Context, rec *T) error {
	return translateRecord(r.db.WithContext(ctx).Create(rec).Error)
}

func (r *recordRepository[T]) Get(ctx context.Context, userID, id uuid.UUID) (*T, error) {
	var rec T
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rec).Error
	if err != nil {
		return nil, translateRecord(err)
	}
	return &rec, nil
}

func (r *recordRepository[T]) ListByUser(ctx context.Context, userID uuid.UUID) ([]T, error) {
	recs := []T{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, translateRecord(err)
	}
	return recs, nil
}

func (r *recordRepository[T]) Save(ctx context.Context, rec *T) error {
	return translateRecord(r.db.WithContext(ctx).Save(rec).Error)
}

func (r *recordRepository[T]) Delete(ctx context.Context, rec *T) error {
	result := r.db.WithContext(ctx).Delete(rec)
	if result.Error != nil {
		return translateRecord(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func translateRecord(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return translate(err)
}
