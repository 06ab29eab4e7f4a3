package integration

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/riftcaller/riftcaller-server-go/internal/config"
	"github.com/riftcaller/riftcaller-server-go/internal/game"
	"github.com/riftcaller/riftcaller-server-go/internal/game/catalog"
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
	"github.com/riftcaller/riftcaller-server-go/internal/repository"
)

// TestGameSurvivesCacheRoundTrip plays into the middle of a game, parks
// the snapshot in redis, and resumes it on a second engine. The resumed
// game must be indistinguishable from the original.
func TestGameSurvivesCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	mr := miniredis.RunT(t)

	cache, err := repository.NewLiveGameCache(ctx, config.RedisConfig{
		Addr:        mr.Addr(),
		SnapshotTTL: time.Hour,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	env := newGameEnv(t)
	env.startGame(t, "park-1")
	env.keepOpeningHands(t, "park-1")
	require.NoError(t, env.engine.ProcessAction("park-1", core.SideCovenant, core.GainManaAction()))
	require.NoError(t, env.engine.ProcessAction("park-1", core.SideCovenant, core.DrawCardAction()))

	snapshot, err := env.engine.SnapshotGame("park-1")
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, "park-1", snapshot))

	originalChecksum, err := env.engine.ChecksumGame("park-1")
	require.NoError(t, err)

	// A second engine, as after a server restart.
	resumed := game.NewEngine(zaptest.NewLogger(t), catalog.New())
	cached, err := cache.Get(ctx, "park-1")
	require.NoError(t, err)
	require.NoError(t, resumed.LoadGame("park-1", cached))

	resumedChecksum, err := resumed.ChecksumGame("park-1")
	require.NoError(t, err)
	assert.Equal(t, originalChecksum, resumedChecksum)

	// Both engines agree on what is legal and evolve identically.
	originalActions, err := env.engine.LegalActions("park-1", core.SideCovenant)
	require.NoError(t, err)
	resumedActions, err := resumed.LegalActions("park-1", core.SideCovenant)
	require.NoError(t, err)
	require.Equal(t, len(originalActions), len(resumedActions))
	for i := range originalActions {
		assert.True(t, originalActions[i].Equal(resumedActions[i]),
			"action %d diverged: %s vs %s", i, originalActions[i], resumedActions[i])
	}

	for _, engine := range []*game.Engine{env.engine, resumed} {
		require.NoError(t, engine.ProcessAction("park-1", core.SideCovenant, core.GainManaAction()))
	}
	after1, err := env.engine.ChecksumGame("park-1")
	require.NoError(t, err)
	after2, err := resumed.ChecksumGame("park-1")
	require.NoError(t, err)
	assert.Equal(t, after1, after2)
}

// TestCacheMissFallsBackToNothing covers the host-side resume contract:
// a game that was never parked is simply absent.
func TestCacheMissFallsBackToNothing(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache, err := repository.NewLiveGameCache(ctx, config.RedisConfig{
		Addr:        mr.Addr(),
		SnapshotTTL: time.Minute,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	_, err = cache.Get(ctx, "never-parked")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
