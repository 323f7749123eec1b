package export

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// drivers for the supported bucket URL schemes
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

const xmlContentType = "application/xml; charset=utf-8"

// BlobStorage implements Storage using gocloud.dev/blob.
// This supports GCS, S3, Azure, and other cloud storage providers.
type BlobStorage struct {
	bucket *blob.Bucket
	prefix string
}

// BlobSchemes lists the bucket URL schemes of the registered drivers, sorted
func BlobSchemes() []string {
	return blob.DefaultURLMux().BucketSchemes()
}

// ValidBlobScheme reports whether a driver for scheme is registered
func ValidBlobScheme(scheme string) bool {
	return blob.DefaultURLMux().ValidBucketScheme(scheme)
}

// NewBlobStorage opens the bucket, e.g. "gs://bucket-name" or "s3://bucket-name".
// prefix is an optional path prefix for all keys.
func NewBlobStorage(ctx context.Context, bucketURL, prefix string) (*BlobStorage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return NewBlobStorageFromBucket(bucket, prefix), nil
}

// NewBlobStorageFromBucket uses an already opened bucket, e.g. a memblob in tests.
func NewBlobStorageFromBucket(bucket *blob.Bucket, prefix string) *BlobStorage {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &BlobStorage{
		bucket: bucket,
		prefix: prefix,
	}
}

func (b *BlobStorage) fullKey(key string) string {
	return b.prefix + key
}

func (b *BlobStorage) Write(ctx context.Context, key string, data []byte) error {
	return b.bucket.WriteAll(ctx, b.fullKey(key), data, &blob.WriterOptions{
		ContentType: xmlContentType,
	})
}

// NewWriter returns a writer on the bucket. Aborting cancels the upload.
func (b *BlobStorage) NewWriter(ctx context.Context, key string) (Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w, err := b.bucket.NewWriter(ctx, b.fullKey(key), &blob.WriterOptions{
		ContentType: xmlContentType,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	return &blobWriter{w: w, cancel: cancel}, nil
}

func (b *BlobStorage) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := b.bucket.ReadAll(ctx, b.fullKey(key))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, os.ErrNotExist
	}
	return data, err
}

func (b *BlobStorage) List(ctx context.Context, prefix string) ([]string, error) {
	iter := b.bucket.List(&blob.ListOptions{
		Prefix: b.fullKey(prefix),
	})

	var keys []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if obj.IsDir || !strings.HasPrefix(obj.Key, b.prefix) {
			continue
		}
		keys = append(keys, strings.TrimPrefix(obj.Key, b.prefix))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

func (b *BlobStorage) Delete(ctx context.Context, key string) error {
	err := b.bucket.Delete(ctx, b.fullKey(key))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}
	return err
}

func (b *BlobStorage) Close() error {
	return b.bucket.Close()
}

type blobWriter struct {
	w      *blob.Writer
	cancel context.CancelFunc
}

func (w *blobWriter) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

func (w *blobWriter) Close() error {
	defer w.cancel()
	return w.w.Close()
}

func (w *blobWriter) Abort() error {
	w.cancel()
	// closing a canceled writer reports the cancellation, nothing was stored
	_ = w.w.Close()
	return nil
}
