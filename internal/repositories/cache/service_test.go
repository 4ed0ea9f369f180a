package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheService(client, time.Hour), mr
}

type pending struct {
	NewEmail string    `json:"new_email"`
	UserID   uuid.UUID `json:"user_id"`
}

func TestGetAndDelete(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	in := pending{NewEmail: "new@example.com", UserID: uuid.New()}
	require.NoError(t, s.SetWithTTL(ctx, "email_verification:abc", in, time.Minute))

	var out pending
	found, err := s.GetAndDelete(ctx, "email_verification:abc", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	found, err = s.GetAndDelete(ctx, "email_verification:abc", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetNXKeepsNewerEntry(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.SetWithTTL(ctx, "phone_verification:1", pending{NewEmail: "newer"}, time.Minute))
	ok, err := s.SetNX(ctx, "phone_verification:1", pending{NewEmail: "older"}, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	var out pending
	found, err := s.GetAndDelete(ctx, "phone_verification:1", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "newer", out.NewEmail)

	ok, err = s.SetNX(ctx, "phone_verification:1", pending{NewEmail: "older"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEntriesEvictedAfterTTL(t *testing.T) {
	s, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.SetWithTTL(ctx, "phone_verification:1", pending{}, time.Minute))
	mr.FastForward(2 * time.Minute)

	found, err := s.GetAndDelete(ctx, "phone_verification:1", &pending{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTokenVersionCache(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	id := uuid.New()

	_, found, err := s.GetTokenVersion(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.CacheTokenVersion(ctx, id, 4))
	v, found, err := s.GetTokenVersion(ctx, id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 4, v)

	require.NoError(t, s.InvalidateUsers(ctx, id))
	_, found, err = s.GetTokenVersion(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHealthCheck(t *testing.T) {
	s, mr := newTestService(t)
	require.NoError(t, s.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, s.HealthCheck(context.Background()))
}
