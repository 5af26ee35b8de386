// Package storage persists game session records keyed by inline message id.
//
// Three backends share the Store contract: FileStore (one JSON file per
// session), SQLiteStore (modernc.org/sqlite) and MemoryStore (go-cache).
// The maintenance sweep only lists stale ids, reads records and deletes them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/aatumaykin/inlinegames/internal/config"
)

var (
	// ErrUnavailable means the backend could not be reached.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrNotFound means no record exists for the id.
	ErrNotFound = errors.New("session not found")
)

// Record is a persisted game session. Payload is the serialized envelope
// carrying the game code and the game state.
type Record struct {
	ID         string
	Payload    []byte
	LastActive time.Time
}

// Candidate is the listing projection of a stale record.
type Candidate struct {
	ID         string
	LastActive time.Time
}

// Store is the session storage boundary.
type Store interface {
	// ListStale yields candidates whose last activity is older than
	// now-threshold. The sequence is lazy and can be ranged over once.
	ListStale(ctx context.Context, threshold time.Duration) (iter.Seq2[Candidate, error], error)
	// Get returns ErrNotFound for a missing id.
	Get(ctx context.Context, id string) (*Record, error)
	// Delete reports whether a record existed and was removed.
	Delete(ctx context.Context, id string) (bool, error)
	// Save inserts or replaces a record.
	Save(ctx context.Context, rec Record) error
	Close() error
}

// Open creates the backend selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "file":
		return NewFileStore(cfg.Path)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// cutoff is the instant before which a record counts as stale.
func cutoff(now time.Time, threshold time.Duration) time.Time {
	return now.Add(-threshold)
}

// once wraps seq so that a second range ends immediately.
func once(seq iter.Seq2[Candidate, error]) iter.Seq2[Candidate, error] {
	used := false
	return func(yield func(Candidate, error) bool) {
		if used {
			return
		}
		used = true
		seq(yield)
	}
}
