package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/riftcaller/riftcaller-server-go/internal/config"
)

const snapshotKeyPrefix = "game:snapshot:"

// LiveGameCache holds serialized snapshots of in-progress games in Redis
// so a restarted host can resume them without a database round trip.
// Entries expire; the database remains the source of truth.
type LiveGameCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewLiveGameCache connects to Redis and verifies connectivity.
func NewLiveGameCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*LiveGameCache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address must not be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := cfg.SnapshotTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &LiveGameCache{client: client, ttl: ttl, logger: logger}, nil
}

// Put stores a snapshot under the game id, refreshing the TTL.
func (c *LiveGameCache) Put(ctx context.Context, gameID string, snapshot []byte) error {
	key := snapshotKeyPrefix + gameID
	if err := c.client.Set(ctx, key, snapshot, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot for %s: %w", gameID, err)
	}

	c.logger.Debug("snapshot cached",
		zap.String("game_id", gameID),
		zap.Int("bytes", len(snapshot)),
	)
	return nil
}

// Get retrieves a cached snapshot. Returns ErrNotFound when the entry is
// absent or has expired.
func (c *LiveGameCache) Get(ctx context.Context, gameID string) ([]byte, error) {
	key := snapshotKeyPrefix + gameID
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("snapshot %s: %w", gameID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read cached snapshot for %s: %w", gameID, err)
	}
	return data, nil
}

// Delete removes a cached snapshot. Deleting an absent entry is not an
// error.
func (c *LiveGameCache) Delete(ctx context.Context, gameID string) error {
	key := snapshotKeyPrefix + gameID
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cached snapshot for %s: %w", gameID, err)
	}
	return nil
}

// Ping verifies connectivity.
func (c *LiveGameCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *LiveGameCache) Close() error {
	return c.client.Close()
}
