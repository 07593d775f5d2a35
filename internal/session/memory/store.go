// Package memory provides an in-memory session store, used in tests and as
// the zero-dependency fallback when no durable backend is configured.
package memory

import (
	"context"
	"sync"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Store holds the session id in process memory.
type Store struct {
	mu sync.RWMutex
	id string
}

// NewStore creates an empty in-memory session store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the stored session id.
func (s *Store) Get(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.id == "" {
		return "", apperrors.NotFound("cart session", "memory")
	}
	return s.id, nil
}

// Set stores the session id.
func (s *Store) Set(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = id
	return nil
}
