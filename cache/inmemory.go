package cache

import (
	"context"
	"encoding/json"
	"time"

	goCache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired items are removed from the store
const DefaultCleanupInterval = 5 * time.Minute

// InMemory implements Cache using github.com/patrickmn/go-cache.
// Entries hold the marshalled bytes so hits return the same payload the
// redis backend would.
type InMemory struct {
	store *goCache.Cache
}

// NewInMemory creates a new in-memory cache
func NewInMemory() *InMemory {
	return &InMemory{
		store: goCache.New(goCache.NoExpiration, DefaultCleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *InMemory) Get(_ context.Context, key string, dest interface{}) error {
	raw, found := c.store.Get(key)
	if !found {
		return ErrMiss
	}
	bytes, ok := raw.([]byte)
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(bytes, dest)
}

// Set adds a value to the cache with the specified expiration
func (c *InMemory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store.Set(key, bytes, ttl)
	return nil
}

// Delete removes a key from the cache
func (c *InMemory) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Flush removes all items from the cache
func (c *InMemory) Flush(_ context.Context) error {
	c.store.Flush()
	return nil
}
