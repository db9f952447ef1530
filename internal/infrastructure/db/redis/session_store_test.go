package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

// setupTestRedis starts an in-memory Redis and returns it with a client.
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newSession(ttl time.Duration) domain.Session {
	now := time.Now().UTC()
	return domain.Session{
		UserID:    "u1",
		UserEmail: "a@b.com",
		Permanent: true,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionStore_CreateFindDelete(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	token, err := store.Create(ctx, newSession(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], sessionKeyPrefix))
	assert.NotContains(t, keys[0], token, "raw token must not be used as key")
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL(keys[0]).Seconds(), 2)

	sess, err := store.Find(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "a@b.com", sess.UserEmail)
	assert.True(t, sess.Permanent)

	require.NoError(t, store.Delete(ctx, token))
	_, err = store.Find(ctx, token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_TokensAreUnique(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		token, err := store.Create(ctx, newSession(time.Minute))
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestSessionStore_UnknownAndEmptyToken(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	_, err := store.Find(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.Find(ctx, "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.NoError(t, store.Delete(ctx, "nope"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_ExpiresWithTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	token, err := store.Create(ctx, newSession(time.Minute))
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Find(ctx, token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_RecordedDeadlineWins(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	token, err := store.Create(ctx, newSession(time.Hour))
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = store.Find(ctx, token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_RejectsPastExpiry(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Create(context.Background(), newSession(-time.Second))
	assert.Error(t, err)
}

func TestSessionStore_BackendDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewSessionStore(client)
	mr.Close()

	_, err := store.Find(context.Background(), "token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
