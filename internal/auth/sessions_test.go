package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach/internal/domain"
)

func newRedisSessions(t *testing.T) (SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessions(client), mr
}

func TestRedisSessionsRoundTrip(t *testing.T) {
	store, _ := newRedisSessions(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Put(ctx, "tok-1", userID, time.Hour))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestRedisSessionsExpiry(t *testing.T) {
	store, mr := newRedisSessions(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok-1", uuid.New(), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRedisSessionsDelete(t *testing.T) {
	store, _ := newRedisSessions(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok-1", uuid.New(), time.Hour))
	require.NoError(t, store.Delete(ctx, "tok-1"))

	_, err := store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMemorySessionsRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := NewMemorySessions(ctx)
	userID := uuid.New()

	require.NoError(t, store.Put(ctx, "tok-1", userID, time.Hour))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = store.Get(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMemorySessionsExpiredTokenRejected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := NewMemorySessions(ctx)

	require.NoError(t, store.Put(ctx, "tok-1", uuid.New(), -time.Second))

	_, err := store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewTokenUnique(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), 40)
}
