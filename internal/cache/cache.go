// SPDX-License-Identifier: MIT

// Package cache stores refreshed playback URLs until shortly before their tokens expire.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Store provides thread-safe string caching with expiration support.
type Store interface {
	// Get retrieves a value. Returns false if not found or expired.
	Get(ctx context.Context, key string) (string, bool)
	// Set stores a value with the specified TTL. Non-positive TTLs are ignored.
	Set(ctx context.Context, key, value string, ttl time.Duration)
	// Delete removes a value.
	Delete(ctx context.Context, key string)
	// Stats returns cache statistics.
	Stats() Stats
}

// Stats holds cache performance metrics.
type Stats struct {
	Hits        int64 // Number of successful Get operations
	Misses      int64 // Number of failed Get operations (not found or expired)
	Sets        int64 // Number of Set operations
	Evictions   int64 // Number of expired entries cleaned up
	CurrentSize int   // Current number of cached entries
}

type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

func (c *counters) snapshot(size int) Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		CurrentSize: size,
	}
}

type entry struct {
	value      string
	expiration time.Time
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]entry
	stats    counters
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates an in-memory store. A positive cleanupInterval starts a
// janitor goroutine that removes expired entries; call Close to stop it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.janitor(cleanupInterval)
	}
	return s
}

// Get retrieves a value from the store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	e, found := s.entries[key]
	s.mu.RUnlock()

	if !found || !s.now().Before(e.expiration) {
		s.stats.misses.Add(1)
		return "", false
	}
	s.stats.hits.Add(1)
	return e.value, true
}

// Set stores a value in the store.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiration: s.now().Add(ttl)}
	s.mu.Unlock()
	s.stats.sets.Add(1)
}

// Delete removes a value from the store.
func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Stats returns cache statistics.
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	size := len(s.entries)
	s.mu.RUnlock()
	return s.stats.snapshot(size)
}

// Close stops the janitor goroutine. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// deleteExpired removes all expired entries and returns how many were removed.
func (s *MemoryStore) deleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	count := 0
	for key, e := range s.entries {
		if !now.Before(e.expiration) {
			delete(s.entries, key)
			count++
		}
	}
	s.stats.evictions.Add(int64(count))
	return count
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.deleteExpired()
		case <-s.stop:
			return
		}
	}
}

// NopStore caches nothing.
type NopStore struct{}

func (NopStore) Get(context.Context, string) (string, bool)         { return "", false }
func (NopStore) Set(context.Context, string, string, time.Duration) {}
func (NopStore) Delete(context.Context, string)                     {}
func (NopStore) Stats() Stats                                       { return Stats{} }
