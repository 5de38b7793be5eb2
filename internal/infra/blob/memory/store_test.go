package memory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menagerie/internal/blob/blobtest"
	"menagerie/internal/blob/core"
)

func TestStoreContract(t *testing.T) {
	blobtest.RunStoreContract(t, New())
}

func TestStoreIsolatesCallerBuffers(t *testing.T) {
	store := New()
	ctx := context.Background()
	md := map[string]string{"a": "1"}
	_, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), core.PutOptions{Metadata: md})
	require.NoError(t, err)
	md["a"] = "2"

	info, rc, err := store.Get(ctx, "k")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "v", string(b))
	assert.Equal(t, "1", info.Metadata["a"])
	assert.Equal(t, core.DriverMemory, store.Driver())
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	_, err := New().Put(context.Background(), " ", bytes.NewReader(nil), core.PutOptions{})
	assert.Error(t, err)
}

func TestStoreDeleteMissing(t *testing.T) {
	ok, err := New().Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
