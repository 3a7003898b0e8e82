package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis implements Cache over a redis instance. Values are stored as JSON
// strings; redis.Nil maps to ErrMiss.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a redis-backed cache
func NewRedis(addr, password string, db int) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping verifies the redis connection
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get retrieves a value from the cache
func (c *Redis) Get(ctx context.Context, key string, dest interface{}) error {
	str, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal([]byte(str), dest)
}

// Set adds a value to the cache with the specified expiration
func (c *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, bytes, ttl).Err()
}

// Delete removes a key from the cache
func (c *Redis) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Flush removes all items from the current redis database
func (c *Redis) Flush(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}

// Close releases the underlying client
func (c *Redis) Close() error {
	return c.client.Close()
}
