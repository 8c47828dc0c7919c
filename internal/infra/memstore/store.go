// Package memstore provides an in-memory implementation of domain.Storage.
// It backs sessions that run with persistence disabled or degraded.
package memstore

import (
	"context"
	"sync"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// Store keeps values in a map for the lifetime of the process.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Remove deletes key.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Ensure Store implements Storage.
var _ domain.Storage = (*Store)(nil)
