// Package cache holds the process wide artifact cache of identity tokens.
package cache

import (
	"sync"
	"unique"

	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
)

var _ ports.ArtifactCache = (*Store)(nil)

// Store is a concurrency safe set of identity tokens.
type Store struct {
	mu     sync.RWMutex
	tokens map[unique.Handle[string]]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{tokens: make(map[unique.Handle[string]]struct{})}
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the process wide store. It is created on first use and
// every later call returns the same instance with its tokens intact.
func Default() *Store {
	defaultOnce.Do(func() {
		defaultStore = NewStore()
	})
	return defaultStore
}

// Add records a token.
func (s *Store) Add(token domain.IdentityToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[unique.Make(string(token))] = struct{}{}
}

// Has reports whether a token was recorded.
func (s *Store) Has(token domain.IdentityToken) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[unique.Make(string(token))]
	return ok
}

// Len returns the number of recorded tokens.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// Clear removes every token.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tokens)
}
