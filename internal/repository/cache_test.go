package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/riftcaller/riftcaller-server-go/internal/config"
)

func setupCache(t *testing.T, ttl time.Duration) (*LiveGameCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	cache, err := NewLiveGameCache(context.Background(), config.RedisConfig{
		Addr:        mr.Addr(),
		SnapshotTTL: ttl,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return cache, mr
}

func TestCachePutAndGet(t *testing.T) {
	cache, _ := setupCache(t, time.Hour)
	ctx := context.Background()

	snapshot := []byte{0x1f, 0x00, 0x42, 0xff, 0x07}
	require.NoError(t, cache.Put(ctx, "game-1", snapshot))

	got, err := cache.Get(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestCacheGetMissingReturnsNotFound(t *testing.T) {
	cache, _ := setupCache(t, time.Hour)

	_, err := cache.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCacheDelete(t *testing.T) {
	cache, _ := setupCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "game-1", []byte("snapshot")))
	require.NoError(t, cache.Delete(ctx, "game-1"))

	_, err := cache.Get(ctx, "game-1")
	assert.True(t, errors.Is(err, ErrNotFound))

	// Deleting again is fine.
	require.NoError(t, cache.Delete(ctx, "game-1"))
}

func TestCacheEntriesExpire(t *testing.T) {
	cache, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "game-1", []byte("snapshot")))

	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "game-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCachePutRefreshesTTL(t *testing.T) {
	cache, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "game-1", []byte("v1")))
	mr.FastForward(45 * time.Second)
	require.NoError(t, cache.Put(ctx, "game-1", []byte("v2")))
	mr.FastForward(45 * time.Second)

	// 90s since the first write but only 45s since the refresh.
	got, err := cache.Get(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestCachePing(t *testing.T) {
	cache, mr := setupCache(t, time.Hour)

	require.NoError(t, cache.Ping(context.Background()))

	mr.Close()
	assert.Error(t, cache.Ping(context.Background()))
}
