// Package cache provides the short-TTL key-value store fronting the lead
// read model. Values are JSON round-tripped so the in-memory and redis
// backends behave identically on hits.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache: miss")

// Cache is a key-value store with per-entry expiration.
type Cache interface {
	// Get unmarshals the cached value for key into dest.
	// Returns ErrMiss when the key is absent or expired.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores value under key for the given TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Flush removes all entries
	Flush(ctx context.Context) error
}

// Key builds a cache key from a prefix and a set of parameters,
// joining all parts with a colon
func Key(prefix string, params ...interface{}) string {
	parts := make([]string, len(params)+1)
	parts[0] = prefix

	for i, param := range params {
		parts[i+1] = fmt.Sprintf("%v", param)
	}

	return strings.Join(parts, ":")
}
