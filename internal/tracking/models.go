package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Event types recorded against a cache entry.
const (
	EventHit   = "hit"
	EventMiss  = "miss"
	EventError = "error"
)

// Entry is the persistent record of a cache key: where it came from, how it
// is configured and how it has been used. One row per distinct key.
type Entry struct {
	bun.BaseModel `bun:"table:cache_entries,alias:ce"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	CacheKey       string    `bun:"cache_key,notnull,unique"`
	FunctionName   string    `bun:"function_name,notnull"`
	OriginalParams string    `bun:"original_params"`
	Backend        string    `bun:"backend,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	LastAccessed   time.Time `bun:"last_accessed,notnull"`
	AccessCount    int64     `bun:"access_count,notnull,default:0"`
	HitCount       int64     `bun:"hit_count,notnull,default:0"`
	MissCount      int64     `bun:"miss_count,notnull,default:0"`
	TimeoutSeconds int       `bun:"timeout_seconds,notnull,default:0"`
	ExpiresAt      time.Time `bun:"expires_at,nullzero"`
}

// HitRate returns the fraction of accesses served from cache, in [0, 1].
func (e *Entry) HitRate() float64 {
	if e.AccessCount == 0 {
		return 0
	}

	return float64(e.HitCount) / float64(e.AccessCount)
}

// Expired reports whether the entry's deadline has passed. Entries without a
// deadline never expire.
func (e *Entry) Expired(now time.Time) bool {
	if e.ExpiresAt.IsZero() {
		return false
	}

	return !now.Before(e.ExpiresAt)
}

// Event is a single cache access observation, kept as an append-only history
// alongside the aggregated Entry counters.
type Event struct {
	bun.BaseModel `bun:"table:cache_events,alias:cev"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	EventType    string    `bun:"event_type,notnull"`
	FunctionName string    `bun:"function_name,notnull"`
	CacheKey     string    `bun:"cache_key,notnull"`
	Backend      string    `bun:"backend,notnull"`
	OccurredAt   time.Time `bun:"occurred_at,notnull"`
	DurationMS   int64     `bun:"duration_ms,notnull,default:0"`
}
