package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	HistoryDefaultPrefix = "cdf-"
	HistoryXMLSuffix     = ".xml"
	HistoryCurrent       = "current"
	// fixed width, so that keys sort by time
	historyTimeLayout = "20060102T150405.000000000Z"
)

type (
	// History keeps the current document of one tree plus a limited number
	// of timestamped backups
	History struct {
		l            *zap.Logger
		storage      Storage
		prefix       string
		historyDir   string // directory used for default filesystem storage
		historyLimit int
		now          func() time.Time
		mu           sync.Mutex
	}
	HistoryOption func(*History)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func HistoryWithHistoryLimit(v int) HistoryOption {
	return func(o *History) {
		o.historyLimit = v
	}
}

func HistoryWithHistoryDir(v string) HistoryOption {
	return func(o *History) {
		o.historyDir = v
	}
}

func HistoryWithStorage(s Storage) HistoryOption {
	return func(o *History) {
		o.storage = s
	}
}

// HistoryWithPrefix sets the key prefix, e.g. "city-"
func HistoryWithPrefix(v string) HistoryOption {
	return func(o *History) {
		o.prefix = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewHistory(l *zap.Logger, opts ...HistoryOption) (*History, error) {
	inst := &History{
		l:            l,
		prefix:       HistoryDefaultPrefix,
		historyDir:   "/var/lib/cdf",
		historyLimit: 2,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.historyLimit < 0 {
		return nil, errors.Errorf("history limit must not be negative, got %d", inst.historyLimit)
	}

	if inst.storage == nil {
		storage, err := NewFilesystemStorage(inst.historyDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create default filesystem storage: %w", err)
		}
		inst.storage = storage
	}

	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

// CurrentKey key of the most recent document
func (h *History) CurrentKey() string {
	return h.prefix + HistoryCurrent + HistoryXMLSuffix
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Add stores data as a new backup and as the current document. It returns
// the key of the backup.
func (h *History) Add(ctx context.Context, data []byte) (string, error) {
	return h.Stream(ctx, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Stream lets fn write a new document which is stored as a backup and as the
// current document at the same time. If fn fails, both writes are aborted and
// the previous current document stays in place.
func (h *History) Stream(ctx context.Context, fn func(w io.Writer) error) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	backupKey := h.prefix + h.now().UTC().Format(historyTimeLayout) + HistoryXMLSuffix
	h.l.Debug("writing files",
		zap.String("backup", backupKey),
		zap.String("current", h.CurrentKey()),
	)

	backup, err := h.storage.NewWriter(ctx, backupKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to open backup history file")
	}
	current, err := h.storage.NewWriter(ctx, h.CurrentKey())
	if err != nil {
		return "", multierr.Append(errors.Wrap(err, "failed to open current history file"), backup.Abort())
	}

	if err := fn(io.MultiWriter(backup, current)); err != nil {
		return "", multierr.Combine(err, backup.Abort(), current.Abort())
	}

	if err := backup.Close(); err != nil {
		return "", multierr.Append(errors.Wrap(err, "failed to write backup history file"), current.Abort())
	}
	if err := current.Close(); err != nil {
		return "", errors.Wrap(err, "failed to write current history file")
	}

	if err := h.cleanup(ctx); err != nil {
		return "", errors.Wrap(err, "failed to clean up history")
	}
	return backupKey, nil
}

// GetCurrent reads the current document into the provided buffer.
func (h *History) GetCurrent(ctx context.Context, buf *bytes.Buffer) error {
	data, err := h.storage.Read(ctx, h.CurrentKey())
	if err != nil {
		return err
	}
	_, err = buf.Write(data)
	return err
}

// Close releases resources held by the history storage.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.storage != nil {
		return h.storage.Close()
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *History) isBackup(key string) bool {
	if !strings.HasPrefix(key, h.prefix) || !strings.HasSuffix(key, HistoryXMLSuffix) {
		return false
	}
	ts := strings.TrimSuffix(strings.TrimPrefix(key, h.prefix), HistoryXMLSuffix)
	_, err := time.Parse(historyTimeLayout, ts)
	return err == nil
}

// getHistory backups, newest first
func (h *History) getHistory(ctx context.Context) (files []string, err error) {
	keys, err := h.storage.List(ctx, h.prefix)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if h.isBackup(key) {
			files = append(files, key)
		}
	}
	return files, nil
}

func (h *History) cleanup(ctx context.Context) error {
	files, err := h.getFilesForCleanup(ctx, h.historyLimit)
	if err != nil {
		return err
	}

	for _, f := range files {
		h.l.Debug("removing outdated backup", zap.String("file", f))
		if err := h.storage.Delete(ctx, f); err != nil {
			return fmt.Errorf("could not remove file %s: %w", f, err)
		}
	}
	return nil
}

func (h *History) getFilesForCleanup(ctx context.Context, historyVersions int) (files []string, err error) {
	contentFiles, err := h.getHistory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate file cleanup list")
	}
	if len(contentFiles) > historyVersions {
		files = append(files, contentFiles[historyVersions:]...)
	}
	return files, nil
}
