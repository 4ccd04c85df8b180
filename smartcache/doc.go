// Package smartcache wraps expensive computations with schedule-driven
// caching: results are stored until the next invalidation point of a
// wall-clock or cron rule, so every entry written in the same window expires
// together.
//
// # Overview
//
// A Decorator combines three pieces:
//
//   - cachekey: deterministic key generation from a call signature and its
//     arguments
//   - schedule: TTL computation from a daily time or cron invalidation rule
//   - cache: the storage backend the results live in
//
// # Basic Usage
//
//	sig := smartcache.SignatureFor(FetchReport, "region", "day")
//
//	d, err := smartcache.TimeBased("03:00", "UTC")
//	if err != nil {
//		return err
//	}
//
//	report, err := smartcache.Do(ctx, d, sig, cachekey.CallArguments{
//		Positional: []any{"emea", 17},
//	}, func(ctx context.Context) (*Report, error) {
//		return FetchReport(ctx, "emea", 17)
//	})
//
// # Degraded Behavior
//
// Storage failures never fail the wrapped call: reads fall through to the
// computation and write failures only skip caching, both logged as warnings.
// Key generation failures and computation errors are returned to the caller
// and nothing is cached.
package smartcache
