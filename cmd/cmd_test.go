package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foomo/cdf/pkg/export"
	"github.com/foomo/cdf/pkg/export/mock"
	"github.com/foomo/cdf/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestConvertCommand(t *testing.T) {
	var (
		dir = t.TempDir()
		out bytes.Buffer
		cmd = NewRootCommand()
	)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"convert", "--log-level", "warn", "--output-dir", dir, "--indent", "2", mock.Path("city.json")})
	require.NoError(t, cmd.Execute())

	var resp responses.Export
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "city", resp.Document)

	data, err := os.ReadFile(filepath.Join(dir, "city-current.xml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, string(data), "\n  <children>")
}

func TestConvertCommand_Failure(t *testing.T) {
	var (
		out bytes.Buffer
		cmd = NewRootCommand()
	)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"convert", "--output-dir", t.TempDir(), mock.Path("invalid.json")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing type")
	assert.Contains(t, out.String(), `"success":false`)
}

func TestConvertCommand_UnknownMode(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"convert", "--mode", "dom", "--output-dir", t.TempDir(), mock.Path("city.json")})
	require.Error(t, cmd.Execute())
}

func TestConvertCommand_NegativeHistoryLimit(t *testing.T) {
	dir := t.TempDir()
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"convert", "--history-limit=-1", "--output-dir", dir, mock.Path("city.json")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--history-limit")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWatchCommand_InvalidPollInterval(t *testing.T) {
	for _, interval := range []string{"0s", "-1m"} {
		cmd := NewRootCommand()
		cmd.SetArgs([]string{"watch", "--poll-interval="+interval, "--output-dir", t.TempDir(), mock.Path("city.json")})
		err := cmd.Execute()
		require.Error(t, err, interval)
		assert.Contains(t, err.Error(), "--poll-interval")
	}
}

func TestCreateStorage(t *testing.T) {
	var (
		ctx = context.Background()
		l   = zaptest.NewLogger(t)
	)

	v := newViper()
	v.Set("output.dir", t.TempDir())
	s, err := createStorage(ctx, v, l)
	require.NoError(t, err)
	assert.IsType(t, &export.FilesystemStorage{}, s)

	v = newViper()
	v.Set("storage.type", "blob")
	_, err = createStorage(ctx, v, l)
	require.Error(t, err)

	v.Set("storage.blob.bucket", "ftp://bucket")
	_, err = createStorage(ctx, v, l)
	require.Error(t, err)

	v.Set("storage.blob.bucket", "file://"+filepath.ToSlash(t.TempDir()))
	s, err = createStorage(ctx, v, l)
	require.NoError(t, err)
	assert.IsType(t, &export.BlobStorage{}, s)
	require.NoError(t, s.Close())

	v = newViper()
	v.Set("storage.type", "tape")
	_, err = createStorage(ctx, v, l)
	require.Error(t, err)
}

func TestBlobScheme(t *testing.T) {
	for _, bucket := range []string{"gs://bucket", "s3://bucket", "azblob://bucket", "file:///tmp/bucket"} {
		scheme, err := blobScheme(bucket)
		require.NoError(t, err, bucket)
		assert.NotEqual(t, "unknown", detectBlobProvider(scheme), bucket)
	}

	for _, bucket := range []string{"", "ftp://bucket", "bucket", "%zz://bucket"} {
		_, err := blobScheme(bucket)
		assert.Error(t, err, bucket)
	}

	assert.Subset(t, export.BlobSchemes(), []string{"azblob", "file", "gs", "s3"})
	assert.Equal(t, "unknown", detectBlobProvider("mem"))
}
