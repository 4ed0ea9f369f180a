package repositories

import (
	"context"
	"errors"

	"hoaportal/internal/models"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate value")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the
	// surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Save writes every column of an existing user
	Save(ctx context.Context, user *models.User) error

	// TokenVersion returns the user's current token version
	TokenVersion(ctx context.Context, id uuid.UUID) (int, error)

	// IncrementTokenVersion invalidates every token issued to the user
	IncrementTokenVersion(ctx context.Context, id uuid.UUID) error

	// List retrieves users with pagination
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)

	// EmailTaken reports whether another user holds email
	EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error)

	// BlockLotTaken reports whether another user holds the block and lot pair
	BlockLotTaken(ctx context.Context, block, lot string, exclude uuid.UUID) (bool, error)

	// UnitNumberTaken reports whether another user holds the unit number
	UnitNumberTaken(ctx context.Context, unit string, exclude uuid.UUID) (bool, error)
}

// Implementation will be in user_repository_impl.go
