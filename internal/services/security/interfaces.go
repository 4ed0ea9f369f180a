package security

import (
	"context"
	"time"
)

// PendingStore holds verification state with a per-key TTL.
type PendingStore interface {
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	// GetAndDelete removes key and decodes its value into dest. Of several
	// concurrent callers for one key at most one finds it.
	GetAndDelete(ctx context.Context, key string, dest interface{}) (bool, error)
}

// Notifier dispatches verification tokens and codes.
type Notifier interface {
	SendEmailVerification(ctx context.Context, to, token string, ttl time.Duration) error
	SendPhoneCode(ctx context.Context, to, code string, ttl time.Duration) error
}
