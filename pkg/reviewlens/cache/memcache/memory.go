// Package memcache is an in-process cache.Store.
package memcache

import (
	"context"
	"sync"

	"github.com/cognicore/reviewlens/pkg/reviewlens/cache"
)

// Store keeps entries in a map. Payloads are copied on the way in and out.
type Store struct {
	mu      sync.RWMutex
	entries map[string]cache.Entry
}

var _ cache.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]cache.Entry)}
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) (cache.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return cache.Entry{}, false, nil
	}
	return copyEntry(e), true, nil
}

// Put implements cache.Store.
func (s *Store) Put(ctx context.Context, e cache.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Key] = copyEntry(e)
	return nil
}

// Delete implements cache.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close implements cache.Store.
func (s *Store) Close() error { return nil }

func copyEntry(e cache.Entry) cache.Entry {
	e.Payload = append([]byte(nil), e.Payload...)
	return e
}
