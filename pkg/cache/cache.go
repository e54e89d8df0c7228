// Package cache provides a small byte cache used to memoize IP geolocation
// responses between CLI invocations. Entries carry a TTL; expired entries are
// treated as misses and removed lazily.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque byte values under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Key builds a cache key from a namespace and raw key material.
// The raw material is hashed so arbitrary strings (URLs with query
// parameters, for example) produce filesystem-safe keys.
func Key(namespace, raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return namespace + ":" + hex.EncodeToString(sum[:])
}
