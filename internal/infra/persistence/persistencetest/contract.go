// Package persistencetest holds the behavioural contract shared by every
// domain.Backend implementation.
package persistencetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menagerie/pkg/domain"
)

// Seed returns a small record sequence used across backend tests.
func Seed() []domain.Animal {
	return []domain.Animal{
		{ID: "0", Name: "Erica", Species: "gorilla", Diet: "omnivore", PersonalityTraits: []string{"quirky", "rash"}},
		{ID: "1", Name: "Noel", Species: "bear", Diet: "carnivore", PersonalityTraits: []string{"impish", "sassy", "brave"}},
	}
}

// RunBackendContract checks that a fresh backend reports no document, then
// that save/load round-trips the sequence and that Save replaces wholesale.
// newBackend must return an empty backend; calling it twice in one test must
// yield handles onto the same storage when the backend is durable.
func RunBackendContract(t *testing.T, newBackend func(t *testing.T) domain.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		b := newBackend(t)
		t.Cleanup(func() { _ = b.Close() })
		_, err := b.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrNoDocument)
	})

	t.Run("round trip", func(t *testing.T) {
		b := newBackend(t)
		t.Cleanup(func() { _ = b.Close() })

		seed := Seed()
		require.NoError(t, b.Save(ctx, seed))
		got, err := b.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, seed, got)

		appended := append(Seed(), domain.Animal{ID: "2", Name: "Fido", Species: "dog", Diet: "omnivore", PersonalityTraits: []string{"loyal", "loyal"}})
		require.NoError(t, b.Save(ctx, appended))
		got, err = b.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, appended, got)
	})

	t.Run("save replaces", func(t *testing.T) {
		b := newBackend(t)
		t.Cleanup(func() { _ = b.Close() })
		require.NoError(t, b.Save(ctx, Seed()))
		require.NoError(t, b.Save(ctx, []domain.Animal{}))
		got, err := b.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
