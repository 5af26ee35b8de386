package storage

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const fileExt = ".json"

// FileStore keeps one file per session in a directory. The file's
// modification time is the session's last activity.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, unavailable("create storage dir", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || id == "." || id == ".." {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.dir, url.PathEscape(id)+fileExt), nil
}

// ListStale streams directory entries and filters them by modification time.
func (s *FileStore) ListStale(ctx context.Context, threshold time.Duration) (iter.Seq2[Candidate, error], error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, unavailable("list sessions", err)
	}

	before := cutoff(s.now(), threshold)

	return once(func(yield func(Candidate, error) bool) {
		for _, entry := range entries {
			if ctx.Err() != nil {
				yield(Candidate{}, ctx.Err())
				return
			}
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				// removed since ReadDir
				continue
			}
			if !info.ModTime().Before(before) {
				continue
			}

			id, err := url.PathUnescape(strings.TrimSuffix(entry.Name(), fileExt))
			if err != nil {
				continue
			}

			if !yield(Candidate{ID: id, LastActive: info.ModTime()}, nil) {
				return
			}
		}
	}), nil
}

// Get reads the whole session file.
func (s *FileStore) Get(_ context.Context, id string) (*Record, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("stat session", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("read session", err)
	}

	return &Record{ID: id, Payload: data, LastActive: info.ModTime()}, nil
}

// Delete removes the session file.
func (s *FileStore) Delete(_ context.Context, id string) (bool, error) {
	path, err := s.path(id)
	if err != nil {
		return false, err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, unavailable("delete session", err)
	}
	return true, nil
}

// Save writes the payload atomically and stamps LastActive as mtime.
func (s *FileStore) Save(_ context.Context, rec Record) error {
	path, err := s.path(rec.ID)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return unavailable("create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(rec.Payload); err != nil {
		tmp.Close()
		return unavailable("write session", err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("close session", err)
	}

	lastActive := rec.LastActive
	if lastActive.IsZero() {
		lastActive = s.now()
	}
	if err := os.Chtimes(tmp.Name(), lastActive, lastActive); err != nil {
		return unavailable("stamp session", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return unavailable("rename session", err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
