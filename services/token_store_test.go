package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	now := fixedNow
	store := NewMemoryTokenStore()
	store.Now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-1", now.Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "already-expired", now.Add(-time.Minute)))

	revoked, err := store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = store.IsRevoked(ctx, "never-seen")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-2", now.Add(time.Hour)))
	assert.Len(t, store.revoked, 1, "expired entries are pruned")
}

func TestRedisTokenStore_BadURL(t *testing.T) {
	_, err := NewRedisTokenStore(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
}
