package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps sessions in a single `game` table.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// sqliteDSN applies the pragmas on every pooled connection. busy_timeout is
// per connection and listing keeps one connection busy while rows stream.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, unavailable("open database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable("ping database", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS game (
		id TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_game_updated ON game(updated_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create game table: %w", err)
	}
	return nil
}

// ListStale streams matching rows; rows stay open until the sequence is
// drained or the consumer stops ranging.
func (s *SQLiteStore) ListStale(ctx context.Context, threshold time.Duration) (iter.Seq2[Candidate, error], error) {
	before := cutoff(s.now(), threshold).UnixMilli()

	s.mu.RLock()
	rows, err := s.db.QueryContext(ctx, `SELECT id, updated_at FROM game WHERE updated_at < ?`, before)
	s.mu.RUnlock()
	if err != nil {
		return nil, unavailable("list stale sessions", err)
	}

	return once(func(yield func(Candidate, error) bool) {
		defer rows.Close()

		for rows.Next() {
			var (
				c         Candidate
				updatedAt int64
			)
			if err := rows.Scan(&c.ID, &updatedAt); err != nil {
				yield(Candidate{}, fmt.Errorf("failed to scan session row: %w", err))
				return
			}
			c.LastActive = time.UnixMilli(updatedAt)

			if !yield(c, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(Candidate{}, unavailable("iterate sessions", err))
		}
	}), nil
}

// Get loads one record.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rec       = Record{ID: id}
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT data, updated_at FROM game WHERE id = ?`, id).Scan(&rec.Payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("get session", err)
	}

	rec.LastActive = time.UnixMilli(updatedAt)
	return &rec, nil
}

// Delete removes one record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM game WHERE id = ?`, id)
	if err != nil {
		return false, unavailable("delete session", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, unavailable("delete session", err)
	}
	return n > 0, nil
}

// Save upserts a record.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastActive := rec.LastActive
	if lastActive.IsZero() {
		lastActive = s.now()
	}

	query := `
	INSERT INTO game (id, data, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, rec.ID, rec.Payload, lastActive.UnixMilli()); err != nil {
		return unavailable("save session", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
