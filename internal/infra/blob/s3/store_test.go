package s3

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menagerie/internal/blob/blobtest"
	"menagerie/internal/blob/core"
)

func TestStoreContract(t *testing.T) {
	blobtest.RunStoreContract(t, NewMockForTests())
}

func TestStoreMetadataRoundTrip(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	_, err := store.Put(ctx, "animals.json", bytes.NewReader([]byte("{}")), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"records": "3"},
	})
	require.NoError(t, err)
	info, err := store.Head(ctx, "animals.json")
	require.NoError(t, err)
	assert.Equal(t, "3", info.Metadata["records"])
	assert.Equal(t, "etag", info.ETag)
	assert.Equal(t, core.DriverS3, store.Driver())
	assert.Equal(t, "mock-bucket", store.Bucket())
}

func TestDeleteMissingReportsFalse(t *testing.T) {
	ok, err := NewMockForTests().Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestMapErrorPassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	err := mapError("k", boom)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, core.ErrNotFound)
}

func TestDecodeChunked(t *testing.T) {
	raw := []byte("5;chunk-signature=abc\r\nhello\r\n6\r\n world\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n")
	out, err := decodeChunked(raw)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(out))

	_, err = decodeChunked([]byte("zz\r\n"))
	assert.Error(t, err)
}
