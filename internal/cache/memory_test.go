package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	store.Set("k", "v", time.Minute)

	got, ok := store.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)

	_, ok = store.Get("missing")
	require.False(t, ok)
}

func TestMemoryEntriesExpire(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	store := NewMemoryWithClock(clock)
	store.Set("page", "body", time.Hour)

	_, ok := store.Get("page")
	require.True(t, ok)

	advance(time.Hour - time.Second)
	_, ok = store.Get("page")
	require.True(t, ok, "entry lives through its full TTL")

	advance(2 * time.Second)
	_, ok = store.Get("page")
	require.False(t, ok, "entry expired after TTL")

	// A refreshed write under the same key starts a new TTL.
	store.Set("page", "body2", time.Hour)
	got, ok := store.Get("page")
	require.True(t, ok)
	require.Equal(t, "body2", got)
}

func TestMemoryZeroTTLDiscarded(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	store.Set("k", "v", 0)
	_, ok := store.Get("k")
	require.False(t, ok)

	store.Set("k", "v", -time.Second)
	_, ok = store.Get("k")
	require.False(t, ok)
}

func TestMemoryLastWriteWins(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	store.Set("k", "first", time.Minute)
	store.Set("k", "second", time.Minute)

	got, ok := store.Get("k")
	require.True(t, ok)
	require.Equal(t, "second", got)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			for j := 0; j < 100; j++ {
				store.Set(key, "v", time.Minute)
				store.Get(key)
			}
		}()
	}
	wg.Wait()
}

func TestNoopNeverHits(t *testing.T) {
	t.Parallel()

	store := NewNoop()
	store.Set("k", "v", time.Hour)
	_, ok := store.Get("k")
	require.False(t, ok)
}
