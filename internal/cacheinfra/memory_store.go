package cacheinfra

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is the default backend: an in-process cache that honors
// per-entry TTLs exactly. Expired entries are dropped lazily on read and
// swept on the configured cleanup interval.
type MemoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore creates a MemoryStore. cfg.TTL is the backstop expiration
// for entries written without an explicit TTL.
func NewMemoryStore(cfg Config) *MemoryStore {
	return &MemoryStore{c: gocache.New(cfg.TTL, cfg.CleanupInterval)}
}

// Get returns the cached value and whether a live entry exists.
func (s *MemoryStore) Get(ctx context.Context, key string) (any, bool, error) {
	v, ok := s.c.Get(key)

	return v, ok, nil
}

// Set stores value under key until ttl elapses. A non-positive ttl falls
// back to the backstop expiration.
func (s *MemoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}

	s.c.Set(key, value, ttl)

	return nil
}

// Delete removes the entry, if any.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.c.Delete(key)

	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	return s.c.ItemCount()
}
