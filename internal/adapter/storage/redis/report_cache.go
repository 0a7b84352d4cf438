package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ReportCache implements ports.ReportCache using Redis.
type ReportCache struct {
	client *goredis.Client
	prefix string
}

// NewReportCache creates a new Redis-backed advisor report cache.
func NewReportCache(client *goredis.Client) *ReportCache {
	return &ReportCache{
		client: client,
		prefix: "report:",
	}
}

// Get retrieves a cached serialized report.
// Returns nil, nil if the key does not exist.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis report get: %w", err)
	}
	return val, nil
}

// Set stores a serialized report with TTL.
func (c *ReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+key, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis report set: %w", err)
	}
	return nil
}
