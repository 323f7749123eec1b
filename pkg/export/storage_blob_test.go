package export

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func newTestBlobStorage(t *testing.T, prefix string) *BlobStorage {
	t.Helper()
	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { bucket.Close() })
	return NewBlobStorageFromBucket(bucket, prefix)
}

func TestBlobStorage_Write(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "")

	require.NoError(t, storage.Write(ctx, "test-key", []byte("original")))
	require.NoError(t, storage.Write(ctx, "test-key", []byte("updated")))

	data, err := storage.Read(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), data)
}

func TestBlobStorage_Write_WithPrefix(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "my-prefix")

	require.NoError(t, storage.Write(ctx, "test-key", []byte("test-data")))

	data, err := storage.bucket.ReadAll(ctx, "my-prefix/test-key")
	require.NoError(t, err)
	assert.Equal(t, []byte("test-data"), data)

	attrs, err := storage.bucket.Attributes(ctx, "my-prefix/test-key")
	require.NoError(t, err)
	assert.Equal(t, xmlContentType, attrs.ContentType)
}

func TestBlobStorage_NewWriter(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "docs/")

	w, err := storage.NewWriter(ctx, "city.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<element/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := storage.Read(ctx, "city.xml")
	require.NoError(t, err)
	assert.Equal(t, []byte("<element/>"), data)
}

func TestBlobStorage_NewWriter_Abort(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "")

	require.NoError(t, storage.Write(ctx, "city.xml", []byte("previous")))

	w, err := storage.NewWriter(ctx, "city.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<elem"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())

	data, err := storage.Read(ctx, "city.xml")
	require.NoError(t, err)
	assert.Equal(t, []byte("previous"), data)
}

func TestBlobStorage_Read_NotFound(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "")

	_, err := storage.Read(ctx, "nonexistent-key")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestBlobStorage_ListWithPrefix(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "bucket-prefix/")

	for _, key := range []string{"prefix-a", "prefix-b", "other-key"} {
		require.NoError(t, storage.Write(ctx, key, []byte(key)))
	}

	keys, err := storage.List(ctx, "prefix-")
	require.NoError(t, err)
	// Keys should not include the bucket prefix
	assert.Equal(t, []string{"prefix-b", "prefix-a"}, keys)

	keys, err = storage.List(ctx, "nonexistent-")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestBlobStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "my-prefix/")

	require.NoError(t, storage.Write(ctx, "test-key", []byte("test-data")))
	require.NoError(t, storage.Delete(ctx, "test-key"))

	_, err := storage.Read(ctx, "test-key")
	assert.True(t, os.IsNotExist(err))

	// idempotent
	require.NoError(t, storage.Delete(ctx, "test-key"))
}
