package cache

import (
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"

	"github.com/truthlens/truthlens/internal/hash/sha256"
)

// Memcached is a Store backed by a memcached cluster. Every backend error
// is absorbed: reads degrade to misses and writes to no-ops, so a cache
// outage never fails a fetch.
type Memcached struct {
	client *memcache.Client
	logger *zap.Logger
}

// NewMemcached connects to the given servers. A failed initial ping is
// logged but not fatal; the client retries per operation.
func NewMemcached(servers []string, timeout time.Duration, logger *zap.Logger) (*Memcached, error) {
	ss := new(memcache.ServerList)
	if err := ss.SetServers(servers...); err != nil {
		return nil, errors.Join(errors.New("set memcached servers"), err)
	}
	client := memcache.NewFromSelector(ss)
	if timeout > 0 {
		client.Timeout = timeout
	}
	if err := client.Ping(); err != nil {
		logger.Warn("memcached ping failed; operating in degraded mode",
			zap.Strings("servers", servers), zap.Error(err))
	}
	return &Memcached{client: client, logger: logger}, nil
}

// Get looks up key, treating every backend error as a miss.
func (m *Memcached) Get(key string) (string, bool) {
	item, err := m.client.Get(sha256.Hex(key))
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			m.logger.Warn("memcached get failed; treating as miss",
				zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return string(item.Value), true
}

// Set stores value under key, logging and swallowing backend errors.
func (m *Memcached) Set(key, value string, ttl time.Duration) {
	item := &memcache.Item{
		Key:        sha256.Hex(key),
		Value:      []byte(value),
		Expiration: int32(ttl.Seconds()),
	}
	if err := m.client.Set(item); err != nil {
		m.logger.Warn("memcached set failed; skipping write",
			zap.String("key", key), zap.Error(err))
	}
}

// Close shuts down the memcached client connections.
func (m *Memcached) Close() {
	if err := m.client.Close(); err != nil {
		m.logger.Warn("memcached close failed", zap.Error(err))
	}
}
