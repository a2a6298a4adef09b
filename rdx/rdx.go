package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is a thin handle over the redis client used for request-scoped
// caching (geocode results). Nil-safe: a nil Conn behaves like a cache
// that never hits.
type Conn struct {
	client *redis.Client
}

func Connect(addr, password string) *Conn {
	if addr == "" {
		return nil
	}
	return &Conn{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})}
}

func (c *Conn) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Conn) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c == nil {
		return
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
}
