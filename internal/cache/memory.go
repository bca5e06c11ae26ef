package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process Store with per-entry TTL. Entries are immutable
// once written; concurrent writers for the same key are last-write-wins.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryWithClock creates a store that reads time through now, so tests
// can advance expiry deterministically.
func NewMemoryWithClock(now func() time.Time) *Memory {
	m := NewMemory()
	m.now = now
	return m
}

// Get returns the live value for key, dropping it if expired.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock: another writer may have refreshed it.
		if current, still := m.entries[key]; still && m.now().After(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

// Set stores value under key until now+ttl.
func (m *Memory) Set(key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}
