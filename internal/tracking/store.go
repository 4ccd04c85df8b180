// Package tracking persists cache usage analytics: one aggregated row per
// cache key plus an append-only event history. Recording is best effort and
// must never block or fail the cached call path; callers are expected to log
// and continue on error.
package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bool64/ctxd"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store provides access to the analytics tables.
type Store struct {
	db  *bun.DB
	log ctxd.Logger
}

// Open connects to the analytics database. Supported drivers are "sqlite3"
// and "postgres".
func Open(driver, dsn string, log ctxd.Logger) (*Store, error) {
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("tracking: open %s: %w", driver, err)
	}

	var db *bun.DB

	switch driver {
	case "sqlite3":
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case "postgres":
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb.Close()

		return nil, fmt.Errorf("tracking: unsupported driver %q", driver)
	}

	return NewStore(db, log), nil
}

// NewStore wraps an existing bun handle.
func NewStore(db *bun.DB, log ctxd.Logger) *Store {
	if log == nil {
		log = ctxd.NoOpLogger{}
	}

	return &Store{db: db, log: log}
}

// Init creates the analytics tables if they do not exist.
func (s *Store) Init(ctx context.Context) error {
	models := []any{
		(*Entry)(nil),
		(*Event)(nil),
	}

	for _, model := range models {
		if _, err := s.db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return ctxd.WrapError(ctx, err, "tracking: create table")
		}
	}

	return nil
}

// RecordAccess upserts the aggregated entry for ev.CacheKey and appends the
// event to the history. params and timeoutSeconds describe the entry at the
// time of the access and are only written on first sight of the key.
func (s *Store) RecordAccess(ctx context.Context, ev Event, params string, timeoutSeconds int) error {
	now := ev.OccurredAt
	if now.IsZero() {
		now = time.Now()
	}

	entry := new(Entry)

	err := s.db.NewSelect().
		Model(entry).
		Where("cache_key = ?", ev.CacheKey).
		Scan(ctx)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		entry = &Entry{
			ID:             uuid.New(),
			CacheKey:       ev.CacheKey,
			FunctionName:   ev.FunctionName,
			OriginalParams: params,
			Backend:        ev.Backend,
			CreatedAt:      now,
			LastAccessed:   now,
			TimeoutSeconds: timeoutSeconds,
		}

		if timeoutSeconds > 0 {
			entry.ExpiresAt = now.Add(time.Duration(timeoutSeconds) * time.Second)
		}

		entry.bumpCounters(ev.EventType)

		if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
			return ctxd.WrapError(ctx, err, "tracking: insert entry", "cache_key", ev.CacheKey)
		}
	case err != nil:
		return ctxd.WrapError(ctx, err, "tracking: select entry", "cache_key", ev.CacheKey)
	default:
		entry.LastAccessed = now
		entry.bumpCounters(ev.EventType)

		if ev.EventType == EventMiss && timeoutSeconds > 0 {
			entry.TimeoutSeconds = timeoutSeconds
			entry.ExpiresAt = now.Add(time.Duration(timeoutSeconds) * time.Second)
		}

		if _, err := s.db.NewUpdate().Model(entry).WherePK().Exec(ctx); err != nil {
			return ctxd.WrapError(ctx, err, "tracking: update entry", "cache_key", ev.CacheKey)
		}
	}

	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	ev.OccurredAt = now

	if _, err := s.db.NewInsert().Model(&ev).Exec(ctx); err != nil {
		return ctxd.WrapError(ctx, err, "tracking: insert event", "cache_key", ev.CacheKey)
	}

	return nil
}

func (e *Entry) bumpCounters(eventType string) {
	e.AccessCount++

	switch eventType {
	case EventHit:
		e.HitCount++
	case EventMiss:
		e.MissCount++
	}
}

// Entry returns the aggregated record for a cache key, or sql.ErrNoRows.
func (s *Store) Entry(ctx context.Context, cacheKey string) (*Entry, error) {
	entry := new(Entry)

	err := s.db.NewSelect().
		Model(entry).
		Where("cache_key = ?", cacheKey).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// RecentEvents returns the newest events for a function, most recent first.
func (s *Store) RecentEvents(ctx context.Context, functionName string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []Event

	err := s.db.NewSelect().
		Model(&events).
		Where("function_name = ?", functionName).
		Order("occurred_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, ctxd.WrapError(ctx, err, "tracking: recent events", "function", functionName)
	}

	return events, nil
}

// PurgeExpired deletes entries whose deadline passed before now and returns
// the number of rows removed.
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.NewDelete().
		Model((*Entry)(nil)).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, ctxd.WrapError(ctx, err, "tracking: purge expired")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}

	return n, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
