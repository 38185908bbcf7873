// Package filestore keeps the key/value map in a single JSON file that is
// rewritten atomically on every change.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/oukeidos/kozh/internal/files"
	"github.com/oukeidos/kozh/internal/logger"
	"github.com/oukeidos/kozh/internal/store"
)

const filePerm = 0600

type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

var _ store.Store = (*Store)(nil)

// Open loads path, creating its directory when needed. A file that is not
// valid JSON is copied aside as <name>.corrupt.json and the store starts
// empty.
func Open(path string) (*Store, error) {
	if err := files.RejectSymlinkPath(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		backup, werr := files.AtomicWriteExclusive(corruptPath(path), data, filePerm)
		if werr != nil {
			return nil, fmt.Errorf("failed to back up unreadable store: %w", werr)
		}
		logger.Warn("Store file is not valid JSON; starting empty", "path", path, "backup", backup, "error", err)
		s.values = make(map[string]string)
	}
	// A bare `null` decodes without error into a nil map.
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

func corruptPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".corrupt" + ext
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.values[key]
	s.values[key] = value
	if err := s.flushLocked(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.flushLocked(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := files.AtomicWrite(s.path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}
