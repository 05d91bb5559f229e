// Package cache provides a small in-memory store with per-entry timestamps
// so callers can apply their own TTL.
package cache

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Get when no entry exists for a key.
var ErrNotFound = errors.New("cache entry not found")

// Storage defines the interface for cache operations
type Storage[T any] interface {
	Get(key string) (*Entry[T], error)
	Set(key string, value T) error
	IsExpired(key string, ttl time.Duration) (bool, error)
}

// Entry represents a cached item with its metadata
type Entry[T any] struct {
	Value     T
	Timestamp time.Time
}

// MemoryStorage implements Storage in memory. When maxEntries is positive
// the oldest entry is evicted once the limit is exceeded.
type MemoryStorage[T any] struct {
	mu         sync.RWMutex
	entries    map[string]Entry[T]
	maxEntries int
	now        func() time.Time
}

// NewMemoryStorage creates a new in-memory cache storage.
func NewMemoryStorage[T any](maxEntries int) *MemoryStorage[T] {
	return &MemoryStorage[T]{
		entries:    make(map[string]Entry[T]),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a cached entry by key
func (s *MemoryStorage[T]) Get(key string) (*Entry[T], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// Set stores value in the cache with the current timestamp
func (s *MemoryStorage[T]) Set(key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry[T]{Value: value, Timestamp: s.now()}
	if s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		s.evictOldest()
	}
	return nil
}

// IsExpired checks if a cache entry has exceeded the TTL. Missing entries
// count as expired.
func (s *MemoryStorage[T]) IsExpired(key string, ttl time.Duration) (bool, error) {
	entry, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return s.now().Sub(entry.Timestamp) >= ttl, nil
}

// Purge drops every entry older than ttl and reports how many were removed.
func (s *MemoryStorage[T]) Purge(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if now.Sub(entry.Timestamp) >= ttl {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached entries.
func (s *MemoryStorage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evictOldest must be called with mu held.
func (s *MemoryStorage[T]) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, entry := range s.entries {
		if first || entry.Timestamp.Before(oldest) {
			oldestKey, oldest, first = key, entry.Timestamp, false
		}
	}
	delete(s.entries, oldestKey)
}
