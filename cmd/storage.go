package cmd

import (
	"context"
	"net/url"
	"strings"

	"github.com/foomo/cdf/pkg/export"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	storageTypeFilesystem = "filesystem"
	storageTypeBlob       = "blob"
)

var blobProviders = map[string]string{
	"gs":     "Google Cloud Storage",
	"s3":     "AWS S3",
	"azblob": "Azure Blob Storage",
	"file":   "Local Filesystem",
}

// createStorage opens the backend the exporter writes its histories to
func createStorage(ctx context.Context, v *viper.Viper, l *zap.Logger) (export.Storage, error) {
	var (
		storageType = storageTypeFlag(v)
		blobBucket  = storageBlobBucketFlag(v)
		blobPrefix  = storageBlobPrefixFlag(v)
	)

	switch storageType {
	case storageTypeFilesystem, "":
		if blobBucket != "" || blobPrefix != "" {
			l.Warn("ignoring blob flags for filesystem storage",
				zap.String("blob_bucket", blobBucket),
				zap.String("blob_prefix", blobPrefix),
			)
		}
		dir := outputDirFlag(v)
		l.Info("writing documents to filesystem", zap.String("dir", dir))
		return export.NewFilesystemStorage(dir)
	case storageTypeBlob:
		scheme, err := blobScheme(blobBucket)
		if err != nil {
			return nil, err
		}
		l.Info("writing documents to bucket",
			zap.String("bucket", blobBucket),
			zap.String("prefix", blobPrefix),
			zap.String("provider", detectBlobProvider(scheme)),
		)
		return export.NewBlobStorage(ctx, blobBucket, blobPrefix)
	default:
		return nil, errors.Errorf("unknown storage type %q (supported: %s, %s)", storageType, storageTypeFilesystem, storageTypeBlob)
	}
}

// blobScheme returns the scheme of bucketURL if a blob driver handles it
func blobScheme(bucketURL string) (string, error) {
	supported := strings.Join(export.BlobSchemes(), ", ")
	if bucketURL == "" {
		return "", errors.Errorf("--blob-bucket is required for blob storage (supported schemes: %s)", supported)
	}
	u, err := url.Parse(bucketURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid bucket url %q", bucketURL)
	}
	if !export.ValidBlobScheme(u.Scheme) {
		return "", errors.Errorf("unsupported scheme %q in bucket url %q (supported schemes: %s)", u.Scheme, bucketURL, supported)
	}
	return u.Scheme, nil
}

func detectBlobProvider(scheme string) string {
	if provider, ok := blobProviders[scheme]; ok {
		return provider
	}
	return "unknown"
}
