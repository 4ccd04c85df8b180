package cache

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-smart-cache/internal/cacheinfra"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend != BackendDefault {
		t.Errorf("expected backend %q, got %q", BackendDefault, cfg.Backend)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestNewStore_BackendSelection(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{name: "default backend", backend: BackendDefault},
		{name: "empty selects default", backend: ""},
		{name: "sturdyc backend", backend: BackendSturdyc},
		{name: "unknown backend", backend: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Backend = tt.backend

			store, err := NewStore(cfg)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}

				if _, ok := err.(*cacheinfra.ConfigError); !ok {
					t.Errorf("expected ConfigError, got %T", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if store == nil {
				t.Fatal("expected a store")
			}
		})
	}
}

func TestNewStore_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTL = 0

	if _, err := NewStore(cfg); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{BackendDefault, BackendSturdyc} {
		t.Run(backend, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Backend = backend

			store, err := NewStore(cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			v, ok, err := store.Get(ctx, "k")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !ok || v != "v" {
				t.Errorf("expected hit with v, got ok=%v value=%v", ok, v)
			}
		})
	}
}

func TestConfig_ValidateBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "memcached"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
