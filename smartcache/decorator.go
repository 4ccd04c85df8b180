package smartcache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-smart-cache/cache"
	"github.com/goliatone/go-smart-cache/cachekey"
	"github.com/goliatone/go-smart-cache/schedule"
)

// Metrics reported through the stats tracker, labeled by function identity.
const (
	MetricHit   = "smart_cache_hit"
	MetricMiss  = "smart_cache_miss"
	MetricError = "smart_cache_error"
)

// Event types reported to the access recorder.
const (
	EventHit   = "hit"
	EventMiss  = "miss"
	EventError = "error"
)

// Access describes a single pass through the decorator, delivered to the
// configured Recorder after the call completes.
type Access struct {
	EventType    string
	CacheKey     string
	FunctionName string
	Backend      string
	Params       string
	Duration     time.Duration
	TTLSeconds   int
}

// Recorder receives access observations. Recording is best effort: failures
// are logged and never surface to the caller.
type Recorder interface {
	Record(ctx context.Context, a Access) error
}

// Decorator wraps computations with schedule-driven caching. Results are
// stored until the next invalidation point of the configured rule, so every
// entry written in the same schedule window expires together.
type Decorator struct {
	store    cache.Store
	keys     *cachekey.Generator
	rule     schedule.Rule
	backend  string
	log      ctxd.Logger
	stat     stats.Tracker
	recorder Recorder
	registry *xsync.MapOf[string, struct{}]
}

// Option configures a Decorator.
type Option func(*options)

type options struct {
	store    cache.Store
	storeCfg cache.Config
	keyOpts  cachekey.Options
	log      ctxd.Logger
	stat     stats.Tracker
	recorder Recorder
}

// WithStore supplies a pre-built storage backend, bypassing store
// construction from configuration.
func WithStore(store cache.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithStoreConfig selects and configures the storage backend.
func WithStoreConfig(cfg cache.Config) Option {
	return func(o *options) {
		o.storeCfg = cfg
	}
}

// WithKeyOptions configures key generation (prefix, length bounds, type
// exclusions).
func WithKeyOptions(opts cachekey.Options) Option {
	return func(o *options) {
		o.keyOpts = opts
	}
}

// WithLogger sets the logger used for degraded-path warnings.
func WithLogger(log ctxd.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithStats sets the metrics tracker for hit/miss/error counters.
func WithStats(stat stats.Tracker) Option {
	return func(o *options) {
		o.stat = stat
	}
}

// WithRecorder sets the access recorder for usage analytics.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// TimeBased creates a Decorator whose entries expire at the next occurrence
// of invalidateAt, a 24-hour "HH:MM" wall-clock time in timezone (empty means
// local time).
func TimeBased(invalidateAt, timezone string, opts ...Option) (*Decorator, error) {
	rule, err := schedule.Daily(invalidateAt, timezone)
	if err != nil {
		return nil, err
	}

	return newDecorator(rule, opts...)
}

// CronBased creates a Decorator whose entries expire at the next fire time of
// a standard 5-field cron expression evaluated in timezone (empty means local
// time).
func CronBased(expression, timezone string, opts ...Option) (*Decorator, error) {
	rule, err := schedule.Cron(expression, timezone)
	if err != nil {
		return nil, err
	}

	return newDecorator(rule, opts...)
}

// New creates a Decorator with a caller-supplied invalidation rule.
func New(rule schedule.Rule, opts ...Option) (*Decorator, error) {
	return newDecorator(rule, opts...)
}

func newDecorator(rule schedule.Rule, opts ...Option) (*Decorator, error) {
	o := options{
		storeCfg: cache.DefaultConfig(),
		keyOpts:  cachekey.Options{},
		log:      ctxd.NoOpLogger{},
		stat:     stats.NoOp{},
	}

	for _, opt := range opts {
		opt(&o)
	}

	keys, err := cachekey.NewGenerator(o.keyOpts)
	if err != nil {
		return nil, err
	}

	store := o.store
	backend := "custom"

	if store == nil {
		store, err = cache.NewStore(o.storeCfg)
		if err != nil {
			return nil, err
		}

		backend = o.storeCfg.Backend
		if backend == "" {
			backend = cache.BackendDefault
		}
	}

	return &Decorator{
		store:    store,
		keys:     keys,
		rule:     rule,
		backend:  backend,
		log:      o.log,
		stat:     o.stat,
		recorder: o.recorder,
		registry: xsync.NewMapOf[string, struct{}](),
	}, nil
}

// Do executes compute through the cache. On a hit the cached value is
// returned without invoking compute; on a miss the result is stored with a
// TTL reaching to the rule's next invalidation point. Storage failures
// degrade gracefully: the call falls through to compute and the error is
// logged. Key generation failures and compute errors are returned to the
// caller and nothing is cached.
func (d *Decorator) Do(ctx context.Context, sig cachekey.CallSignature, call cachekey.CallArguments, compute func(context.Context) (any, error)) (any, error) {
	start := time.Now()

	key, err := d.keys.GenerateKey(sig, call)
	if err != nil {
		d.stat.Add(ctx, MetricError, 1, "function", sig.Function)

		return nil, err
	}

	d.registry.Store(key, struct{}{})

	ttl := schedule.TTL(d.rule, start)
	params := renderParams(call)

	value, ok, err := d.store.Get(ctx, key)
	if err != nil {
		d.log.Warn(ctx, "cache get failed, executing directly",
			"key", key, "error", err)
	}

	if ok {
		d.stat.Add(ctx, MetricHit, 1, "function", sig.Function)
		d.record(ctx, Access{
			EventType:    EventHit,
			CacheKey:     key,
			FunctionName: sig.Function,
			Backend:      d.backend,
			Params:       params,
			Duration:     time.Since(start),
			TTLSeconds:   ttl,
		})

		return value, nil
	}

	value, err = compute(ctx)
	if err != nil {
		d.stat.Add(ctx, MetricError, 1, "function", sig.Function)
		d.record(ctx, Access{
			EventType:    EventError,
			CacheKey:     key,
			FunctionName: sig.Function,
			Backend:      d.backend,
			Params:       params,
			Duration:     time.Since(start),
			TTLSeconds:   ttl,
		})

		return nil, err
	}

	if err := d.store.Set(ctx, key, value, time.Duration(ttl)*time.Second); err != nil {
		d.log.Warn(ctx, "cache set failed, result not cached",
			"key", key, "error", err)
	}

	d.stat.Add(ctx, MetricMiss, 1, "function", sig.Function)
	d.record(ctx, Access{
		EventType:    EventMiss,
		CacheKey:     key,
		FunctionName: sig.Function,
		Backend:      d.backend,
		Params:       params,
		Duration:     time.Since(start),
		TTLSeconds:   ttl,
	})

	return value, nil
}

// Invalidate removes every key this decorator has written. Keys written by
// other decorator instances are untouched.
func (d *Decorator) Invalidate(ctx context.Context) error {
	var firstErr error

	d.registry.Range(func(key string, _ struct{}) bool {
		if err := d.store.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = ctxd.WrapError(ctx, err, "invalidate key", "key", key)
		}

		d.registry.Delete(key)

		return true
	})

	return firstErr
}

// Keys returns the sorted set of keys this decorator has written.
func (d *Decorator) Keys() []string {
	var keys []string

	d.registry.Range(func(key string, _ struct{}) bool {
		keys = append(keys, key)

		return true
	})

	sort.Strings(keys)

	return keys
}

// Key returns the cache key Do would use for the given call, without
// touching the store.
func (d *Decorator) Key(sig cachekey.CallSignature, call cachekey.CallArguments) (string, error) {
	return d.keys.GenerateKey(sig, call)
}

// TTL returns the seconds until the rule's next invalidation point after now.
func (d *Decorator) TTL(now time.Time) int {
	return schedule.TTL(d.rule, now)
}

func (d *Decorator) record(ctx context.Context, a Access) {
	if d.recorder == nil {
		return
	}

	if err := d.recorder.Record(ctx, a); err != nil {
		d.log.Warn(ctx, "access recording failed",
			"key", a.CacheKey, "error", err)
	}
}

// renderParams produces a compact human-readable rendering of the call
// arguments for analytics. Not part of the cache key.
func renderParams(call cachekey.CallArguments) string {
	var b strings.Builder

	for i, v := range call.Positional {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%v", v)
	}

	if len(call.Keyword) > 0 {
		names := make([]string, 0, len(call.Keyword))
		for name := range call.Keyword {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			if b.Len() > 0 {
				b.WriteString(", ")
			}

			fmt.Fprintf(&b, "%s=%v", name, call.Keyword[name])
		}
	}

	return b.String()
}

// Do executes compute through d and returns a typed result. A cached value of
// an unexpected type counts as a miss for the caller and returns an error.
func Do[T any](ctx context.Context, d *Decorator, sig cachekey.CallSignature, call cachekey.CallArguments, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	value, err := d.Do(ctx, sig, call, func(ctx context.Context) (any, error) {
		return compute(ctx)
	})
	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("smartcache: cached value is %T, want %T", value, zero)
	}

	return typed, nil
}
