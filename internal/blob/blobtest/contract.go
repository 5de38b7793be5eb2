// Package blobtest holds the behavioural contract every blob store must meet.
package blobtest

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menagerie/internal/blob/core"
)

// RunStoreContract exercises put/replace/get/head/list/delete on an empty store.
func RunStoreContract(t *testing.T, store core.Store) {
	t.Helper()
	ctx := context.Background()

	_, _, err := store.Get(ctx, "docs/missing.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = store.Head(ctx, "docs/missing.json")
	assert.ErrorIs(t, err, core.ErrNotFound)

	info, err := store.Put(ctx, "docs/animals.json", bytes.NewReader([]byte(`{"animals":[]}`)), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"records": "0"},
	})
	require.NoError(t, err)
	assert.Equal(t, "docs/animals.json", info.Key)
	assert.EqualValues(t, len(`{"animals":[]}`), info.Size)

	replaced := []byte(`{"animals":[{"id":"0"}]}`)
	_, err = store.Put(ctx, "docs/animals.json", bytes.NewReader(replaced), core.PutOptions{ContentType: "application/json"})
	require.NoError(t, err, "put must replace an existing key")

	got, rc, err := store.Get(ctx, "docs/animals.json")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, replaced, body)
	assert.EqualValues(t, len(replaced), got.Size)
	assert.Equal(t, "application/json", got.ContentType)

	head, err := store.Head(ctx, "docs/animals.json")
	require.NoError(t, err)
	assert.EqualValues(t, len(replaced), head.Size)

	_, err = store.Put(ctx, "other.json", bytes.NewReader([]byte("{}")), core.PutOptions{})
	require.NoError(t, err)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "docs/animals.json", all[0].Key)
	assert.Equal(t, "other.json", all[1].Key)

	docs, err := store.List(ctx, "docs/")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	ok, err := store.Delete(ctx, "other.json")
	require.NoError(t, err)
	assert.True(t, ok)
	_, _, err = store.Get(ctx, "other.json")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
