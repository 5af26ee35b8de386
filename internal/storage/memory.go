package storage

import (
	"context"
	"iter"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps records in process memory. Entries never expire on
// their own; only Delete removes them.
type MemoryStore struct {
	items *cache.Cache
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
}

// ListStale takes a snapshot of the stale ids and yields them one by one.
func (s *MemoryStore) ListStale(ctx context.Context, threshold time.Duration) (iter.Seq2[Candidate, error], error) {
	before := cutoff(s.now(), threshold)

	var stale []Candidate
	for id, item := range s.items.Items() {
		rec := item.Object.(Record)
		if rec.LastActive.Before(before) {
			stale = append(stale, Candidate{ID: id, LastActive: rec.LastActive})
		}
	}

	return once(func(yield func(Candidate, error) bool) {
		for _, c := range stale {
			if ctx.Err() != nil {
				yield(Candidate{}, ctx.Err())
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}), nil
}

// Get returns a copy of the stored record.
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	rec := v.(Record)
	rec.Payload = append([]byte(nil), rec.Payload...)
	return &rec, nil
}

// Delete removes the record if present.
func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.items.Get(id); !ok {
		return false, nil
	}
	s.items.Delete(id)
	return true, nil
}

// Save stores a copy of rec.
func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	if rec.LastActive.IsZero() {
		rec.LastActive = s.now()
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	s.items.Set(rec.ID, rec, cache.NoExpiration)
	return nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

// Close drops all records.
func (s *MemoryStore) Close() error {
	s.items.Flush()
	return nil
}
