// Package cache defines the shared cache backend used by the robots policy
// cache and the page result cache, with implementations that degrade to
// "always miss" rather than failing requests.
package cache

import "time"

// Store is a minimal TTL'd key-value backend. Implementations must be safe
// for concurrent use and must never surface backend failures: a failed read
// is a miss, a failed write is a no-op.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set stores value under key for at most ttl.
	Set(key, value string, ttl time.Duration)
}

// Noop is the null-object Store used when no cache is configured.
type Noop struct{}

// NewNoop returns a Store that never hits.
func NewNoop() *Noop {
	return &Noop{}
}

// Get always misses.
func (*Noop) Get(string) (string, bool) {
	return "", false
}

// Set discards the value.
func (*Noop) Set(string, string, time.Duration) {}
