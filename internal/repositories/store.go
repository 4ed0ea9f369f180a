package repositories

import (
	"context"
	"errors"
	"fmt"

	"hoaportal/internal/models"
	"hoaportal/internal/repositories/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store groups the repositories and runs units of work atomically.
type Store interface {
	Users() UserRepository
	ChangeLogs() ChangeLogRepository
	HouseholdMembers() RecordRepository[models.HouseholdMember]
	Pets() RecordRepository[models.Pet]
	Vehicles() RecordRepository[models.Vehicle]

	// WithTx runs fn in a transaction. The Store passed to fn is bound to
	// it; returning an error rolls everything back. Nested calls join the
	// outer transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db    *gorm.DB
	cache *cache.CacheService
	log   *zap.Logger
	tx    *txState
}

// txState collects users written inside a transaction so their cache
// entries are dropped only once the transaction commits.
type txState struct {
	touched map[uuid.UUID]struct{}
}

// NewStore returns a gorm-backed Store. cacheService may be nil.
func NewStore(db *gorm.DB, cacheService *cache.CacheService, log *zap.Logger) Store {
	return &gormStore{db: db, cache: cacheService, log: log}
}

func (s *gormStore) Users() UserRepository {
	return &userRepository{db: s.db, store: s}
}

func (s *gormStore) ChangeLogs() ChangeLogRepository {
	return &changeLogRepository{db: s.db}
}

func (s *gormStore) HouseholdMembers() RecordRepository[models.HouseholdMember] {
	return &recordRepository[models.HouseholdMember]{db: s.db}
}

func (s *gormStore) Pets() RecordRepository[models.Pet] {
	return &recordRepository[models.Pet]{db: s.db}
}

func (s *gormStore) Vehicles() RecordRepository[models.Vehicle] {
	return &recordRepository[models.Vehicle]{db: s.db}
}

func (s *gormStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	state := &txState{touched: make(map[uuid.UUID]struct{})}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, cache: s.cache, log: s.log, tx: state})
	})
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(state.touched))
	for id := range state.touched {
		ids = append(ids, id)
	}
	s.invalidate(ctx, ids...)
	return nil
}

// touch marks a user as written.
func (s *gormStore) touch(ctx context.Context, id uuid.UUID) {
	if s.tx != nil {
		s.tx.touched[id] = struct{}{}
		return
	}
	s.invalidate(ctx, id)
}

func (s *gormStore) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	if err := s.cache.InvalidateUsers(ctx, ids...); err != nil {
		s.log.Warn("failed to invalidate user cache", zap.Error(err))
	}
}

// translate maps gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
}
