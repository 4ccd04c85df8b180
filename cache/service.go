package cache

import (
	"context"
	"io"
	"time"
)

// Store is the pluggable backend contract consumed by the decorator. The
// decorator only names and times entries; eviction, coordination and
// stampede suppression belong to the backend.
type Store interface {
	// Get returns the cached value and whether a live entry exists.
	Get(ctx context.Context, key string) (any, bool, error)

	// Set stores value under key until ttl elapses.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes the entry, if any.
	Delete(ctx context.Context, key string) error
}

// Dumper is implemented by stores that can stream their live entries for a
// warm handoff between instances.
type Dumper interface {
	// Dump writes live entries to w and returns the number processed.
	Dump(w io.Writer) (int, error)

	// Restore loads entries from r, preserving remaining TTLs, and returns
	// the number processed.
	Restore(r io.Reader) (int, error)
}
