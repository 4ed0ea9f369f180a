package memory

import (
	"context"
	"sort"
	"time"

	"hoaportal/internal/models"
	"hoaportal/internal/repositories"

	"github.com/google/uuid"
)

type record[T any] interface {
	*T
	Base() *models.Record
}

// records backs a RecordRepository with one of the store's tables. clash,
// when set, plays the part of the table's unique index.
type records[T any, P record[T]] struct {
	s     *Store
	table func(*data) map[uuid.UUID]T
	clash func(a, b *T) bool
}

func (r *records[T, P]) conflict(rec *T) bool {
	if r.clash == nil {
		return false
	}
	for _, other := range r.table(r.s.d) {
		if r.clash(rec, &other) {
			return true
		}
	}
	return false
}

func (r *records[T, P]) Create(ctx context.Context, rec *T) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	base := P(rec).Base()
	if _, ok := r.s.d.users[base.UserID]; !ok {
		return repositories.ErrUserNotFound
	}
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now

	table := r.table(r.s.d)
	if _, exists := table[base.ID]; exists || r.conflict(rec) {
		return repositories.ErrDuplicate
	}
	table[base.ID] = *rec
	return nil
}

func (r *records[T, P]) Get(ctx context.Context, userID, id uuid.UUID) (*T, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.table(r.s.d)[id]
	if !ok || P(&rec).Base().UserID != userID {
		return nil, repositories.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *records[T, P]) ListByUser(ctx context.Context, userID uuid.UUID) ([]T, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []T{}
	for _, rec := range r.table(r.s.d) {
		if P(&rec).Base().UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return P(&out[i]).Base().CreatedAt.Before(P(&out[j]).Base().CreatedAt)
	})
	return out, nil
}

func (r *records[T, P]) Save(ctx context.Context, rec *T) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	base := P(rec).Base()
	table := r.table(r.s.d)
	if _, ok := table[base.ID]; !ok {
		return repositories.ErrRecordNotFound
	}
	if r.conflict(rec) {
		return repositories.ErrDuplicate
	}
	base.UpdatedAt = time.Now()
	table[base.ID] = *rec
	return nil
}

func (r *records[T, P]) Delete(ctx context.Context, rec *T) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id := P(rec).Base().ID
	table := r.table(r.s.d)
	if _, ok := table[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	delete(table, id)
	return nil
}
