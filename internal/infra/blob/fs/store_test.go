package fs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menagerie/internal/blob/blobtest"
	"menagerie/internal/blob/core"
)

func TestStoreContract(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	blobtest.RunStoreContract(t, store)
}

func TestSanitizeKey(t *testing.T) {
	for _, bad := range []string{"", "  ", "../escape", "/abs", "a/../../b", "x.meta"} {
		_, err := sanitizeKey(bad)
		assert.Error(t, err, bad)
	}
	k, err := sanitizeKey("a//b/./c.json")
	require.NoError(t, err)
	assert.Equal(t, "a/b/c.json", k)
}

func TestPutKeepsCreatedAtAcrossReplace(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "doc.json", bytes.NewReader([]byte("1")), core.PutOptions{})
	require.NoError(t, err)
	first, err := readMeta(filepath.Join(root, "doc.json.meta"))
	require.NoError(t, err)

	_, err = store.Put(ctx, "doc.json", bytes.NewReader([]byte("22")), core.PutOptions{})
	require.NoError(t, err)
	second, err := readMeta(filepath.Join(root, "doc.json.meta"))
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.EqualValues(t, 2, second.Size)
	assert.NotEqual(t, first.ETag, second.ETag)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temp files must be cleaned up")
	}
}

func TestNewDefaultsRoot(t *testing.T) {
	t.Chdir(t.TempDir())
	store, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "./blobdata", store.Root())
	assert.Equal(t, core.DriverFilesystem, store.Driver())
}

func TestGetMissingMetaFails(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "orphan.json"), []byte("{}"), 0o600))
	_, _, err = store.Get(context.Background(), "orphan.json")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrNotFound)
}
