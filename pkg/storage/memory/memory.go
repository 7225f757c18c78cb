// Package memory provides an in-memory storage.Store used for tests and
// sessions which should not leave traces.
package memory

import (
	"context"
	"sync"

	"github.com/mpapenbr/trackroll/pkg/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

func New() *Store {
	return &Store{data: map[string]string{}}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Snapshot returns a copy of the stored entries.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make(map[string]string, len(s.data))
	for k, v := range s.data {
		ret[k] = v
	}
	return ret
}
