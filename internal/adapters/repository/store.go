// Package repository holds the latest reconciled bundle for readers. The
// engine recomputes the bundle from scratch each run; the store only swaps
// complete snapshots, never patches them.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/edviva/impactboard/internal/domain/model"
)

// Store provides concurrent read access to the latest bundle.
type Store struct {
	mu      sync.RWMutex
	bundle  model.Bundle
	ok      bool
	lastRun time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the stored bundle with a new snapshot.
func (s *Store) Set(_ context.Context, b model.Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundle = b
	s.ok = true
	s.lastRun = b.GeneratedAt
}

// Get returns the latest bundle, or ErrNoBundle before the first run.
func (s *Store) Get(_ context.Context) (model.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok {
		return model.Bundle{}, ErrNoBundle
	}
	return s.bundle, nil
}

// LastRun returns the generation time of the stored bundle, zero before the
// first run.
func (s *Store) LastRun(_ context.Context) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}
