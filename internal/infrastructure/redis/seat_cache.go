package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// SeatCache caches the available seat count of one pool.
type SeatCache struct {
	client *redis.Client
	key    string
}

// NewSeatCache caches counts for the named pool.
func NewSeatCache(client *redis.Client, pool string) *SeatCache {
	return &SeatCache{client: client, key: fmt.Sprintf("seats:available:%s", pool)}
}

func (c *SeatCache) GetAvailableCount(ctx context.Context) (int, error) {
	val, err := c.client.Get(ctx, c.key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("read seat cache: %w", err)
	}
	return val, nil
}

func (c *SeatCache) SetAvailableCount(ctx context.Context, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key, count, ttl).Err(); err != nil {
		return fmt.Errorf("write seat cache: %w", err)
	}
	return nil
}

func (c *SeatCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("invalidate seat cache: %w", err)
	}
	return nil
}
