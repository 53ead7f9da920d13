package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ResolvedCache implements ports.ResolvedCache using Redis. It records the
// terminal status of resolved transactions so redundant provider
// redeliveries short-circuit before touching the database.
type ResolvedCache struct {
	client *goredis.Client
	prefix string
}

// NewResolvedCache creates a new Redis-backed resolved-transaction cache.
func NewResolvedCache(client *goredis.Client) *ResolvedCache {
	return &ResolvedCache{
		client: client,
		prefix: "resolved:",
	}
}

// Get retrieves the recorded terminal status for refID.
// Returns "", nil if the reference is not recorded.
func (c *ResolvedCache) Get(ctx context.Context, refID string) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+refID).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis resolved get: %w", err)
	}
	return val, nil
}

// Set records a terminal status for refID with TTL.
func (c *ResolvedCache) Set(ctx context.Context, refID string, status string, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+refID, status, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis resolved set: %w", err)
	}
	return nil
}
