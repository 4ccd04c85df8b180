package cacheinfra

import (
	"errors"
	"io"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/vmihailenco/msgpack/v5"
)

// dumpRecord is the wire form of a single cached entry. ExpiresAt is the
// absolute deadline in unix nanoseconds, zero for entries without one.
type dumpRecord struct {
	Key       string
	Value     any
	ExpiresAt int64
}

// Dump writes all live entries to w as a msgpack stream and returns the
// number of entries written. Entries that expire during the walk are skipped.
func (s *MemoryStore) Dump(w io.Writer) (int, error) {
	enc := msgpack.NewEncoder(w)
	now := time.Now().UnixNano()

	n := 0

	for key, item := range s.c.Items() {
		if item.Expiration > 0 && item.Expiration <= now {
			continue
		}

		rec := dumpRecord{
			Key:       key,
			Value:     item.Object,
			ExpiresAt: item.Expiration,
		}

		if err := enc.Encode(rec); err != nil {
			return n, err
		}

		n++
	}

	return n, nil
}

// Restore reads a msgpack stream produced by Dump and loads the entries,
// preserving each entry's remaining lifetime. Entries already past their
// deadline are dropped. Returns the number of entries loaded.
func (s *MemoryStore) Restore(r io.Reader) (int, error) {
	dec := msgpack.NewDecoder(r)
	now := time.Now()

	n := 0

	for {
		var rec dumpRecord

		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}

			return n, err
		}

		ttl := gocache.NoExpiration

		if rec.ExpiresAt > 0 {
			deadline := time.Unix(0, rec.ExpiresAt)
			if !deadline.After(now) {
				continue
			}

			ttl = deadline.Sub(now)
		}

		s.c.Set(rec.Key, rec.Value, ttl)
		n++
	}
}
