// Package memory keeps the animal document in process memory. It backs tests
// and ephemeral deployments where nothing should outlive the process.
package memory

import (
	"context"
	"sync"

	"menagerie/pkg/domain"
)

var _ domain.Backend = (*Store)(nil)

// Store holds the last saved sequence. It reports domain.ErrNoDocument until
// the first Save unless constructed with a seed.
type Store struct {
	mu      sync.RWMutex
	animals []domain.Animal
	present bool
	saves   int
}

// NewStore returns an empty in-memory backend.
func NewStore() *Store { return &Store{} }

// NewSeededStore returns a backend that already holds a copy of seed.
func NewSeededStore(seed []domain.Animal) *Store {
	return &Store{animals: domain.CloneAnimals(seed), present: true}
}

// Driver reports domain.StorageMemory.
func (s *Store) Driver() domain.StorageDriver { return domain.StorageMemory }

// Load returns a deep copy of the held sequence.
func (s *Store) Load(_ context.Context) ([]domain.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return nil, domain.ErrNoDocument
	}
	return domain.CloneAnimals(s.animals), nil
}

// Save replaces the held sequence with a deep copy of animals.
func (s *Store) Save(ctx context.Context, animals []domain.Animal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animals = domain.CloneAnimals(animals)
	s.present = true
	s.saves++
	return nil
}

// Saves reports how many times Save has succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
