package cache

import (
	"context"
	"time"
)

// Service is the response cache consulted by side-effect-free read endpoints.
// Implementations must degrade to a miss when the backing store is
// unreachable: callers always fall back to the source of truth.
type Service interface {
	// Get returns the cached payload for key, or ok=false on miss. A miss is
	// indistinguishable from absence, expiry, or backend failure.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. Failures are swallowed.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// DeleteByPattern evicts every key matching pattern (prefix glob such as
	// "cache:/productos*") and returns the number of keys removed.
	DeleteByPattern(ctx context.Context, pattern string) int

	Close() error
}

// Key derives the cache key for a read request from its path and raw query
// string. Distinct filter/pagination combinations never collide; identical
// requests always map to the same key.
func Key(path, rawQuery string) string {
	if rawQuery == "" {
		return "cache:" + path
	}
	return "cache:" + path + "?" + rawQuery
}

// TTLs per cached read family.
var (
	TTLListing = 5 * time.Minute
	TTLStats   = time.Minute
)
