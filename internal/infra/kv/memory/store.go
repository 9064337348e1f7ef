// Package memory implements an in-memory key-value Store for tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"warburtonsos/internal/kv/core"
)

// Store implements core.Store backed by process memory. Intended for tests.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty in-memory key-value store.
func New() *Store { return &Store{data: make(map[string][]byte)} }

// Driver returns the key-value driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Get returns a copy of the payload stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, core.ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of payload at key.
func (s *Store) Put(_ context.Context, key string, payload []byte) error {
	if strings.TrimSpace(key) == "" {
		return core.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), payload...)
	return nil
}

// Delete removes key if present.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys lists stored keys in ascending order.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
