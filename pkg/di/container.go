// Package di wires the module's components into ready-to-use decorators.
package di

import (
	"context"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"

	"github.com/goliatone/go-smart-cache/cache"
	"github.com/goliatone/go-smart-cache/cachekey"
	"github.com/goliatone/go-smart-cache/internal/tracking"
	"github.com/goliatone/go-smart-cache/smartcache"
)

// TrackingConfig configures optional usage analytics. Leaving DSN empty
// disables tracking entirely.
type TrackingConfig struct {
	// Driver selects the database driver: "sqlite3" or "postgres".
	Driver string

	// DSN is the driver-specific connection string.
	DSN string
}

// Config holds everything the container needs to build decorators.
type Config struct {
	Store    cache.Config
	Keys     cachekey.Options
	Tracking TrackingConfig
	Logger   ctxd.Logger
	Stats    stats.Tracker
}

// DefaultConfig returns a Config with the default in-process backend, default
// key options and no tracking.
func DefaultConfig() Config {
	return Config{
		Store:  cache.DefaultConfig(),
		Logger: ctxd.NoOpLogger{},
		Stats:  stats.NoOp{},
	}
}

// Container provides dependency injection for caching components. It manages
// a singleton store plus the optional analytics recorder, and provides
// factory methods for creating decorators that share them.
type Container struct {
	config        Config
	store         cache.Store
	recorder      smartcache.Recorder
	trackingStore *tracking.Store
}

// NewContainer creates a DI container from the provided configuration. When
// tracking is configured the analytics schema is initialized before the
// container is returned.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	if cfg.Logger == nil {
		cfg.Logger = ctxd.NoOpLogger{}
	}

	if cfg.Stats == nil {
		cfg.Stats = stats.NoOp{}
	}

	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}

	store, err := cache.NewStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	c := &Container{
		config: cfg,
		store:  store,
	}

	if cfg.Tracking.DSN != "" {
		ts, err := tracking.Open(cfg.Tracking.Driver, cfg.Tracking.DSN, cfg.Logger)
		if err != nil {
			return nil, err
		}

		if err := ts.Init(ctx); err != nil {
			ts.Close()

			return nil, err
		}

		c.trackingStore = ts
		c.recorder = &trackingRecorder{store: ts}
	}

	return c, nil
}

// NewContainerWithDefaults creates a container using default configuration.
func NewContainerWithDefaults(ctx context.Context) (*Container, error) {
	return NewContainer(ctx, DefaultConfig())
}

// Store returns the singleton storage backend shared by all decorators
// created through this container.
func (c *Container) Store() cache.Store {
	return c.store
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() Config {
	return c.config
}

// Tracking returns the analytics store, or nil when tracking is disabled.
func (c *Container) Tracking() *tracking.Store {
	return c.trackingStore
}

// Close releases the analytics database handle, if any.
func (c *Container) Close() error {
	if c.trackingStore == nil {
		return nil
	}

	return c.trackingStore.Close()
}

// TimeBased creates a decorator invalidating daily at the given "HH:MM"
// wall-clock time, sharing the container's store, logger, stats and recorder.
func (c *Container) TimeBased(invalidateAt, timezone string) (*smartcache.Decorator, error) {
	return smartcache.TimeBased(invalidateAt, timezone, c.decoratorOptions()...)
}

// CronBased creates a decorator invalidating at each fire time of a standard
// cron expression, sharing the container's store, logger, stats and recorder.
func (c *Container) CronBased(expression, timezone string) (*smartcache.Decorator, error) {
	return smartcache.CronBased(expression, timezone, c.decoratorOptions()...)
}

func (c *Container) decoratorOptions() []smartcache.Option {
	opts := []smartcache.Option{
		smartcache.WithStore(c.store),
		smartcache.WithKeyOptions(c.config.Keys),
		smartcache.WithLogger(c.config.Logger),
		smartcache.WithStats(c.config.Stats),
	}

	if c.recorder != nil {
		opts = append(opts, smartcache.WithRecorder(c.recorder))
	}

	return opts
}

// trackingRecorder adapts decorator access observations to the analytics
// store.
type trackingRecorder struct {
	store *tracking.Store
}

func (r *trackingRecorder) Record(ctx context.Context, a smartcache.Access) error {
	ev := tracking.Event{
		EventType:    a.EventType,
		FunctionName: a.FunctionName,
		CacheKey:     a.CacheKey,
		Backend:      a.Backend,
		OccurredAt:   time.Now(),
		DurationMS:   a.Duration.Milliseconds(),
	}

	return r.store.RecordAccess(ctx, ev, a.Params, a.TTLSeconds)
}
