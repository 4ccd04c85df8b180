package cacheinfra

import "time"

// Config holds the configuration shared by the backend adapters.
type Config struct {
	// Capacity defines the maximum number of entries the sturdyc backend
	// can store. Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent
	// access. Must be greater than 0.
	NumShards int

	// TTL is the backstop time-to-live for cached entries. Per-entry TTLs
	// computed from invalidation schedules take precedence. Must be greater
	// than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict when
	// the sturdyc backend reaches capacity. Must be between 1-100.
	EvictionPercentage int

	// CleanupInterval sets how often the memory backend sweeps expired
	// entries. Zero disables the sweep (entries still expire lazily on
	// read).
	CleanupInterval time.Duration

	// MissingRecordStorage enables negative caching in the sturdyc backend.
	MissingRecordStorage bool

	// EvictionInterval sets how often the sturdyc backend checks for
	// expired entries. Zero value uses the client default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
		CleanupInterval:    5 * time.Minute,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.CleanupInterval < 0 {
		return &ConfigError{Field: "CleanupInterval", Message: "must be non-negative"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
