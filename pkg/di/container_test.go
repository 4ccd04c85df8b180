package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-smart-cache/cache"
	"github.com/goliatone/go-smart-cache/cachekey"
	"github.com/goliatone/go-smart-cache/smartcache"
)

func TestNewContainerWithDefaults(t *testing.T) {
	c, err := NewContainerWithDefaults(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer c.Close()

	if c.Store() == nil {
		t.Error("expected a store")
	}

	if c.Tracking() != nil {
		t.Error("expected tracking to be disabled by default")
	}
}

func TestNewContainer_InvalidStoreConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.TTL = -1

	if _, err := NewContainer(context.Background(), cfg); err == nil {
		t.Fatal("expected error for invalid store config")
	}
}

func TestContainer_DecoratorsShareStore(t *testing.T) {
	ctx := context.Background()

	c, err := NewContainerWithDefaults(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer c.Close()

	d1, err := c.TimeBased("03:00", "UTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d2, err := c.CronBased("*/30 * * * *", "UTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig := cachekey.CallSignature{Function: "users.fetch", Params: []string{"id"}}
	call := cachekey.CallArguments{Positional: []any{1}}

	calls := 0
	compute := func(ctx context.Context) (any, error) {
		calls++

		return "v", nil
	}

	if _, err := d1.Do(ctx, sig, call, compute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same key through the second decorator hits the shared store.
	if _, err := d2.Do(ctx, sig, call, compute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected shared store to serve the second call, got %d computes", calls)
	}
}

func TestContainer_WithTracking(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Tracking = TrackingConfig{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "tracking.db"),
	}

	c, err := NewContainer(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer c.Close()

	if c.Tracking() == nil {
		t.Fatal("expected tracking to be enabled")
	}

	d, err := c.TimeBased("03:00", "UTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig := cachekey.CallSignature{Function: "users.fetch", Params: []string{"id"}}

	v, err := smartcache.Do(ctx, d, sig, cachekey.CallArguments{Positional: []any{7}},
		func(ctx context.Context) (string, error) {
			return "tracked", nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v != "tracked" {
		t.Errorf("expected tracked, got %v", v)
	}

	entry, err := c.Tracking().Entry(ctx, "easy_cache:users.fetch:id:7")
	if err != nil {
		t.Fatalf("expected tracked entry: %v", err)
	}

	if entry.MissCount != 1 {
		t.Errorf("expected 1 miss recorded, got %d", entry.MissCount)
	}
}

func TestContainer_WithTracking_BadDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracking = TrackingConfig{Driver: "oracle", DSN: "dsn"}

	if _, err := NewContainer(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unsupported tracking driver")
	}
}

func TestContainer_Config(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Backend = cache.BackendSturdyc

	c, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer c.Close()

	if got := c.Config().Store.Backend; got != cache.BackendSturdyc {
		t.Errorf("expected sturdyc backend, got %q", got)
	}
}
