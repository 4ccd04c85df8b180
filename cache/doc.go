// Package cache exposes the storage backend contract and configuration for
// the caching decorator.
//
// # Overview
//
// The package exports the Store interface plus a Config facade over the
// internal backend adapters:
//
//   - Store: Get/Set/Delete with per-entry TTLs, consumed by the decorator
//   - Dumper: optional warm handoff of live entries between instances
//
// Two backends ship with the module, selected through Config.Backend:
//
//   - "default": an in-process store that honors schedule-driven TTLs
//     exactly
//   - "sturdyc": a sharded store with capacity eviction and
//     stampede-resistant refresh; per-entry deadlines are enforced through
//     an expiry envelope because the underlying client applies a single TTL
//
// # Basic Usage
//
//	store, err := cache.NewStore(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	err = store.Set(ctx, key, value, 30*time.Minute)
//	value, ok, err := store.Get(ctx, key)
//
// # Error Handling
//
// Backend failures are expected to degrade gracefully: the decorator logs
// and falls through to direct execution rather than propagating store
// errors into the call path.
package cache
