// Package core owns the in-memory animal collection and coordinates it with a
// persistence backend.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"menagerie/pkg/domain"
)

// Option configures a Store.
type Option func(*Store)

// WithMetricsRecorder reports every operation to rec.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Store) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer wraps every operation in a span from tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Store) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithLogger sets the logger used for load and persist events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSeedPath imports the JSON document at path when the backend holds no
// document yet.
func WithSeedPath(path string) Option {
	return func(s *Store) { s.seedPath = path }
}

// Store holds the authoritative record sequence. Reads share a read lock;
// Append holds the write lock across id assignment, append and save so ids
// stay equal to positions.
type Store struct {
	mu      sync.RWMutex
	animals []domain.Animal
	backend domain.Backend
	ready   atomic.Bool

	metrics  MetricsRecorder
	tracer   Tracer
	logger   *slog.Logger
	seedPath string
}

// Open loads the backend's document. A missing document is imported from the
// seed path when one is configured; otherwise it is an error, as is any
// malformed document.
func Open(ctx context.Context, backend domain.Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("core: nil backend")
	}
	s := &Store{
		backend: backend,
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	err := s.observe(ctx, OpLoad, func(ctx context.Context) error {
		animals, err := backend.Load(ctx)
		if errors.Is(err, domain.ErrNoDocument) && s.seedPath != "" {
			animals, err = s.importSeed(ctx)
		}
		if err != nil {
			return fmt.Errorf("load %s backend: %w", backend.Driver(), err)
		}
		s.animals = domain.CloneAnimals(animals)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.ready.Store(true)
	s.logger.Info("animal store loaded", "driver", backend.Driver(), "records", len(s.animals))
	return s, nil
}

func (s *Store) importSeed(ctx context.Context) ([]domain.Animal, error) {
	var animals []domain.Animal
	err := s.observe(ctx, OpImport, func(ctx context.Context) error {
		data, err := os.ReadFile(s.seedPath)
		if err != nil {
			return fmt.Errorf("read seed: %w", err)
		}
		animals, err = domain.DecodeDocument(data)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.seedPath, err)
		}
		if err := s.backend.Save(ctx, animals); err != nil {
			return fmt.Errorf("save seed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("imported seed document", "path", s.seedPath, "records", len(animals))
	return animals, nil
}

func (s *Store) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := fn(ctx)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	return err
}

// Ready reports whether the initial load completed.
func (s *Store) Ready() bool { return s != nil && s.ready.Load() }

// Driver reports the backend driver.
func (s *Store) Driver() domain.StorageDriver { return s.backend.Driver() }

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.animals)
}

// Snapshot returns a deep copy of the full sequence in order.
func (s *Store) Snapshot() []domain.Animal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneAnimals(s.animals)
}

// List returns copies of the records matching filter, in stored order.
func (s *Store) List(ctx context.Context, filter domain.Filter) ([]domain.Animal, error) {
	var out []domain.Animal
	err := s.observe(ctx, OpList, func(context.Context) error {
		s.mu.RLock()
		defer s.mu.RUnlock()
		out = domain.CloneAnimals(domain.FilterAnimals(filter, s.animals))
		return nil
	})
	return out, err
}

// Get returns the first record with id, or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (domain.Animal, error) {
	var out domain.Animal
	err := s.observe(ctx, OpGet, func(context.Context) error {
		s.mu.RLock()
		defer s.mu.RUnlock()
		a, ok := domain.FindByID(id, s.animals)
		if !ok {
			return domain.ErrNotFound{ID: id}
		}
		out = a.Clone()
		return nil
	})
	return out, err
}

// Append validates animal, assigns the next positional id, appends it and
// saves the full sequence. If the save fails the append is undone and the
// error wraps domain.ErrPersist.
func (s *Store) Append(ctx context.Context, animal domain.Animal) (domain.Animal, error) {
	var out domain.Animal
	err := s.observe(ctx, OpAppend, func(ctx context.Context) error {
		if err := domain.ValidateRecord(animal); err != nil {
			return err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		prev := s.animals
		rec := animal.Clone()
		rec.ID = domain.NextID(len(prev))
		next := make([]domain.Animal, len(prev), len(prev)+1)
		copy(next, prev)
		next = append(next, rec)
		if err := s.backend.Save(ctx, next); err != nil {
			s.logger.Error("persist animals failed", "driver", s.backend.Driver(), "error", err)
			return fmt.Errorf("%w: %w", domain.ErrPersist, err)
		}
		s.animals = next
		out = rec.Clone()
		return nil
	})
	return out, err
}

// Close releases the backend.
func (s *Store) Close() error {
	s.ready.Store(false)
	return s.backend.Close()
}
