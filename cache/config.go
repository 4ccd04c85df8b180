package cache

import (
	"time"

	"github.com/goliatone/go-smart-cache/internal/cacheinfra"
)

// Backend selectors understood by NewStore.
const (
	// BackendDefault is the in-process store honoring per-entry TTLs exactly.
	BackendDefault = "default"

	// BackendSturdyc adds sharding, capacity eviction and stampede-resistant
	// refresh on top of the Store contract.
	BackendSturdyc = "sturdyc"
)

// Config exposes backend configuration options for consumers of the cache
// package.
type Config struct {
	Backend              string
	Capacity             int
	NumShards            int
	TTL                  time.Duration
	EvictionPercentage   int
	CleanupInterval      time.Duration
	MissingRecordStorage bool
	EvictionInterval     time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	cfg := convertFromInternal(cacheinfra.DefaultConfig())
	cfg.Backend = BackendDefault

	return cfg
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}

	return c.toInternal().Validate()
}

// NewStore constructs the backend selected by cfg.Backend.
func NewStore(cfg Config) (Store, error) {
	internal := cfg.toInternal()
	if err := internal.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case "", BackendDefault:
		return cacheinfra.NewMemoryStore(internal), nil
	case BackendSturdyc:
		return cacheinfra.NewSturdycStore(internal)
	default:
		return nil, &cacheinfra.ConfigError{Field: "Backend", Message: "unknown backend " + cfg.Backend}
	}
}

func (c Config) validateBackend() error {
	switch c.Backend {
	case "", BackendDefault, BackendSturdyc:
		return nil
	default:
		return &cacheinfra.ConfigError{Field: "Backend", Message: "unknown backend " + c.Backend}
	}
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		CleanupInterval:      c.CleanupInterval,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		CleanupInterval:      cfg.CleanupInterval,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}
