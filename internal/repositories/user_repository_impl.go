package repositories

import (
	"context"

	"hoaportal/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db    *gorm.DB
	store *gormStore
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return translate(err)
	}
	r.store.touch(ctx, user.ID)
	return nil
}

func (r *userRepository) TokenVersion(ctx context.Context, id uuid.UUID) (int, error) {
	c := r.store.cache
	if c != nil && r.store.tx == nil {
		v, found, err := c.GetTokenVersion(ctx, id)
		if err != nil {
			r.store.log.Warn("token version cache read failed", zap.Error(err))
		} else if found {
			return v, nil
		}
	}

	var user models.User
	err := r.db.WithContext(ctx).Select("id", "token_version").First(&user, "id = ?", id).Error
	if err != nil {
		return 0, translate(err)
	}

	if c != nil && r.store.tx == nil {
		if err := c.CacheTokenVersion(ctx, id, user.TokenVersion); err != nil {
			r.store.log.Warn("token version cache write failed", zap.Error(err))
		}
	}
	return user.TokenVersion, nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.store.touch(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	if err := db.Order("created_at ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, translate(err)
	}

	return users, total, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?) AND id <> ?", email, exclude)
}

func (r *userRepository) BlockLotTaken(ctx context.Context, block, lot string, exclude uuid.UUID) (bool, error) {
	return r.exists(ctx, "block = ? AND lot = ? AND id <> ?", block, lot, exclude)
}

func (r *userRepository) UnitNumberTaken(ctx context.Context, unit string, exclude uuid.UUID) (bool, error) {
	return r.exists(ctx, "unit_number = ? AND id <> ?", unit, exclude)
}

func (r *userRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where(query, args...).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}
