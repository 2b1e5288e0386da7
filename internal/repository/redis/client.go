package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/repository"
	"github.com/redis/go-redis/v9"
)

// NewClient connects and pings redis. Callers treat an error as "run
// without the snapshot cache" rather than a fatal condition.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// SnapshotCache keeps the latest snapshot of every live game.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(gameID string) string {
	return "connect4:game:" + gameID
}

func (c *SnapshotCache) Save(ctx context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.client.Set(ctx, snapshotKey(snap.GameID), payload, c.ttl).Err()
}

// Get returns repository.ErrNotFound when the game is unknown or expired.
func (c *SnapshotCache) Get(ctx context.Context, gameID string) (*domain.Snapshot, error) {
	payload, err := c.client.Get(ctx, snapshotKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (c *SnapshotCache) Delete(ctx context.Context, gameID string) error {
	return c.client.Del(ctx, snapshotKey(gameID)).Err()
}
