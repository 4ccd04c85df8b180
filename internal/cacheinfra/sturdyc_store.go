package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// envelope carries the schedule-driven deadline alongside the value. The
// sturdyc client applies a single client-wide TTL, so the per-entry deadline
// is enforced on read.
type envelope struct {
	Value     any
	ExpiresAt time.Time
}

// SturdycStore adapts a sturdyc client to the Store contract, bringing
// sharding, capacity eviction and stampede-resistant refresh. The configured
// client TTL acts as an upper bound on entry lifetime.
type SturdycStore struct {
	client *sturdyc.Client[any]
}

// NewSturdycStore validates cfg and initializes the underlying client.
//
// Version compatibility note: this adapter assumes the sturdyc v1.x API.
func NewSturdycStore(cfg Config) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option

	if cfg.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &SturdycStore{client: client}, nil
}

// Get returns the cached value and whether a live entry exists. Entries past
// their per-entry deadline are dropped even when the client still holds them.
func (s *SturdycStore) Get(ctx context.Context, key string) (any, bool, error) {
	v, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}

	env, ok := v.(envelope)
	if !ok {
		return nil, false, nil
	}

	if !env.ExpiresAt.IsZero() && !time.Now().Before(env.ExpiresAt) {
		s.client.Delete(key)

		return nil, false, nil
	}

	return env.Value, true, nil
}

// Set stores value under key with a per-entry deadline of now+ttl. A
// non-positive ttl leaves the deadline to the client TTL alone.
func (s *SturdycStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	var deadline time.Time

	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}

	s.client.Set(key, envelope{Value: value, ExpiresAt: deadline})

	return nil
}

// Delete removes the entry, if any.
func (s *SturdycStore) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)

	return nil
}
