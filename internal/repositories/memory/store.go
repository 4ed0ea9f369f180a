// Package memory implements the repository and pending-store interfaces in
// process memory. It enforces the same uniqueness rules as the database
// indexes and is used by service and handler tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"hoaportal/internal/models"
	"hoaportal/internal/repositories"

	"github.com/google/uuid"
)

type data struct {
	users    map[uuid.UUID]*models.User
	logs     []models.ProfileChangeLog
	members  map[uuid.UUID]models.HouseholdMember
	pets     map[uuid.UUID]models.Pet
	vehicles map[uuid.UUID]models.Vehicle
}

func newData() *data {
	return &data{
		users:    make(map[uuid.UUID]*models.User),
		members:  make(map[uuid.UUID]models.HouseholdMember),
		pets:     make(map[uuid.UUID]models.Pet),
		vehicles: make(map[uuid.UUID]models.Vehicle),
	}
}

// clone copies records by value; their pointer fields are replaced on
// write, never mutated in place.
func (d *data) clone() *data {
	c := &data{
		users:    make(map[uuid.UUID]*models.User, len(d.users)),
		logs:     slices.Clone(d.logs),
		members:  maps.Clone(d.members),
		pets:     maps.Clone(d.pets),
		vehicles: maps.Clone(d.vehicles),
	}
	for id, u := range d.users {
		c.users[id] = copyUser(u)
	}
	return c
}

// Store is an in-memory repositories.Store. Transactions are serialized and
// roll back by restoring a snapshot, so writes made outside a transaction
// while a failing one runs are lost with it.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    *data

	// FailChangeLogs makes every change log write fail with this error.
	FailChangeLogs error
}

func NewStore() *Store {
	return &Store{d: newData()}
}

func (s *Store) Users() repositories.UserRepository { return &users{s: s} }

func (s *Store) ChangeLogs() repositories.ChangeLogRepository { return &changeLogs{s: s} }

func (s *Store) HouseholdMembers() repositories.RecordRepository[models.HouseholdMember] {
	return &records[models.HouseholdMember, *models.HouseholdMember]{
		s:     s,
		table: func(d *data) map[uuid.UUID]models.HouseholdMember { return d.members },
		clash: (*models.HouseholdMember).Clashes,
	}
}

func (s *Store) Pets() repositories.RecordRepository[models.Pet] {
	return &records[models.Pet, *models.Pet]{
		s:     s,
		table: func(d *data) map[uuid.UUID]models.Pet { return d.pets },
	}
}

func (s *Store) Vehicles() repositories.RecordRepository[models.Vehicle] {
	return &records[models.Vehicle, *models.Vehicle]{
		s:     s,
		table: func(d *data) map[uuid.UUID]models.Vehicle { return d.vehicles },
		clash: (*models.Vehicle).Clashes,
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(repositories.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(&txStore{s}); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// txStore joins the running transaction instead of starting another.
type txStore struct{ *Store }

func (t *txStore) WithTx(ctx context.Context, fn func(repositories.Store) error) error {
	return fn(t)
}

// Logs returns every change log entry in insertion order.
func (s *Store) Logs() []models.ProfileChangeLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.d.logs)
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.BackupCodes = slices.Clone(u.BackupCodes)
	c.NotificationPreferences = maps.Clone(u.NotificationPreferences)
	if u.TOTPSecret != nil {
		secret := *u.TOTPSecret
		c.TOTPSecret = &secret
	}
	if u.MoveInDate != nil {
		d := *u.MoveInDate
		c.MoveInDate = &d
	}
	return &c
}

type users struct{ s *Store }

// conflict reports whether u collides with another user on a unique value.
func (r *users) conflict(u *models.User) bool {
	for id, other := range r.s.d.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(other.Email, u.Email) {
			return true
		}
		if u.Block != "" && u.Lot != "" && other.Block == u.Block && other.Lot == u.Lot {
			return true
		}
		if u.UnitNumber != "" && other.UnitNumber == u.UnitNumber {
			return true
		}
	}
	return false
}

func (r *users) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleGuest
	}
	if user.TokenVersion == 0 {
		user.TokenVersion = 1
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.LastProfileUpdate.IsZero() {
		user.LastProfileUpdate = now
	}
	if _, exists := r.s.d.users[user.ID]; exists || r.conflict(user) {
		return repositories.ErrDuplicate
	}
	r.s.d.users[user.ID] = copyUser(user)
	return nil
}

func (r *users) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.d.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByIDForUpdate needs no extra locking: transactions are already serialized.
func (r *users) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.d.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *users) Save(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.d.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	if r.conflict(user) {
		return repositories.ErrDuplicate
	}
	user.UpdatedAt = time.Now()
	r.s.d.users[user.ID] = copyUser(user)
	return nil
}

func (r *users) TokenVersion(ctx context.Context, id uuid.UUID) (int, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return u.TokenVersion, nil
}

func (r *users) IncrementTokenVersion(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.d.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.TokenVersion++
	return nil
}

func (r *users) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := make([]*models.User, 0, len(r.s.d.users))
	for _, u := range r.s.d.users {
		all = append(all, copyUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return []*models.User{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r *users) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	return r.any(func(u *models.User) bool { return u.ID != exclude && strings.EqualFold(u.Email, email) }), nil
}

func (r *users) BlockLotTaken(ctx context.Context, block, lot string, exclude uuid.UUID) (bool, error) {
	return r.any(func(u *models.User) bool { return u.ID != exclude && u.Block == block && u.Lot == lot }), nil
}

func (r *users) UnitNumberTaken(ctx context.Context, unit string, exclude uuid.UUID) (bool, error) {
	return r.any(func(u *models.User) bool { return u.ID != exclude && u.UnitNumber == unit }), nil
}

func (r *users) any(match func(*models.User) bool) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.d.users {
		if match(u) {
			return true
		}
	}
	return false
}

type changeLogs struct{ s *Store }

func (r *changeLogs) Create(ctx context.Context, entry *models.ProfileChangeLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.FailChangeLogs != nil {
		return r.s.FailChangeLogs
	}
	if _, ok := r.s.d.users[entry.UserID]; !ok {
		return repositories.ErrUserNotFound
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	r.s.d.logs = append(r.s.d.logs, *entry)
	return nil
}

func (r *changeLogs) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ProfileChangeLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.ProfileChangeLog{}
	for i := len(r.s.d.logs) - 1; i >= 0; i-- {
		if r.s.d.logs[i].UserID == userID {
			out = append(out, r.s.d.logs[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
