package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menagerie/internal/infra/persistence/persistencetest"
	"menagerie/pkg/domain"
)

func TestStoreContract(t *testing.T) {
	persistencetest.RunBackendContract(t, func(t *testing.T) domain.Backend {
		return NewStore(filepath.Join(t.TempDir(), "nested", "animals.json"))
	})
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animals.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"animals": [`), 0o600))
	_, err := NewStore(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoDocument)
}

func TestSaveWritesPrettyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animals.json")
	store := NewStore(path)
	animals := []domain.Animal{{ID: "0", Name: "Erica", Species: "gorilla", Diet: "omnivore", PersonalityTraits: []string{"quirky"}}}
	require.NoError(t, store.Save(context.Background(), animals))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := domain.EncodeDocument(animals)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSaveFailsWhenDirectoryIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	err := NewStore(filepath.Join(blocker, "animals.json")).Save(context.Background(), nil)
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	store := NewStore("")
	assert.Equal(t, DefaultPath, store.Path())
	assert.Equal(t, domain.StorageFile, store.Driver())
	assert.NoError(t, store.Close())
}
