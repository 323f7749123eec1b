package export

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/foomo/cdf/cdf"
	"github.com/foomo/cdf/pkg/metrics"
	"github.com/foomo/cdf/responses"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Mode selects the XML writer
type Mode string

const (
	// ModeStream writes tokens straight into storage
	ModeStream Mode = "stream"
	// ModeDocument builds an etree document first
	ModeDocument Mode = "document"

	defaultDocumentName = "cdf"
)

var ErrDuplicateDocument = errors.New("duplicate document name")

// ParseMode validates a mode name
func ParseMode(v string) (Mode, error) {
	switch m := Mode(strings.ToLower(v)); m {
	case ModeStream, ModeDocument:
		return m, nil
	default:
		return "", errors.Errorf("unknown mode %q (supported: %s, %s)", v, ModeStream, ModeDocument)
	}
}

type (
	// Exporter loads tree sources and stores them as XML documents, one
	// history per document name
	Exporter struct {
		l            *zap.Logger
		loader       *Loader
		storage      Storage
		mode         Mode
		indent       int
		historyLimit int
		concurrency  int
		histories    map[string]*History
		historiesMu  sync.Mutex
	}
	Option func(*Exporter)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, loader *Loader, storage Storage, opts ...Option) *Exporter {
	inst := &Exporter{
		l:            l.Named("exporter"),
		loader:       loader,
		storage:      storage,
		mode:         ModeStream,
		historyLimit: 2,
		concurrency:  4,
		histories:    map[string]*History{},
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithMode(v Mode) Option {
	return func(o *Exporter) {
		o.mode = v
	}
}

// WithIndent indents the output by v spaces per level, 0 writes compact XML
func WithIndent(v int) Option {
	return func(o *Exporter) {
		o.indent = v
	}
}

func WithHistoryLimit(v int) Option {
	return func(o *Exporter) {
		o.historyLimit = v
	}
}

func WithConcurrency(v int) Option {
	return func(o *Exporter) {
		o.concurrency = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Export loads source and stores it under its document name
func (e *Exporter) Export(ctx context.Context, source string) *responses.Export {
	start := time.Now()
	name := DocumentName(source)
	l := e.l.With(
		zap.String("run_id", uuid.New().String()),
		zap.String("document", name),
	)
	l.Info("export started", zap.String("source", source))

	root, _, err := e.loader.Load(ctx, source)
	if err != nil {
		resp := &responses.Export{Document: name, Source: source}
		resp.Stats.LoadRuntime = time.Since(start).Seconds()
		return e.fail(l, resp, err)
	}
	resp := e.exportTree(ctx, l, name, root)
	resp.Source = source
	resp.Stats.LoadRuntime = time.Since(start).Seconds() - resp.Stats.OwnRuntime
	return resp
}

// ExportTree stores an already loaded tree under name
func (e *Exporter) ExportTree(ctx context.Context, name string, root *cdf.Node) *responses.Export {
	l := e.l.With(
		zap.String("run_id", uuid.New().String()),
		zap.String("document", name),
	)
	return e.exportTree(ctx, l, name, root)
}

// ExportAll exports all sources concurrently. Every source is exported, the
// returned error combines all failures.
func (e *Exporter) ExportAll(ctx context.Context, sources ...string) ([]*responses.Export, error) {
	seen := map[string]string{}
	for _, source := range sources {
		name := DocumentName(source)
		if other, ok := seen[name]; ok {
			return nil, errors.Wrapf(ErrDuplicateDocument, "%q and %q are both named %q", other, source, name)
		}
		seen[name] = source
	}

	g, gCtx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}

	resps := make([]*responses.Export, len(sources))
	for i, source := range sources {
		g.Go(func() error {
			resps[i] = e.Export(gCtx, source)
			return nil
		})
	}
	_ = g.Wait()

	var err error
	for _, resp := range resps {
		if !resp.Success {
			err = multierr.Append(err, errors.Errorf("%s: %s", resp.Document, resp.ErrorMessage))
		}
	}
	return resps, err
}

// Current returns the current document stored under name
func (e *Exporter) Current(ctx context.Context, name string) ([]byte, error) {
	h, err := e.history(name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := h.GetCurrent(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close releases the storage
func (e *Exporter) Close() error {
	return e.storage.Close()
}

// DocumentName derives the document name from the last element of a source
// path or URL without its extension
func DocumentName(source string) string {
	base := filepath.Base(source)
	if isRemote(source) {
		if u, err := url.Parse(source); err == nil {
			base = path.Base(u.Path)
		}
	}
	name := strings.TrimSuffix(base, path.Ext(base))
	switch name {
	case "", ".", "/":
		return defaultDocumentName
	default:
		return name
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (e *Exporter) exportTree(ctx context.Context, l *zap.Logger, name string, root *cdf.Node) *responses.Export {
	start := time.Now()
	resp := &responses.Export{Document: name}

	if err := root.Validate(); err != nil {
		resp.Stats.OwnRuntime = time.Since(start).Seconds()
		return e.fail(l, resp, errors.Wrap(err, "invalid tree"))
	}

	nodes := append([]*cdf.Node{root}, root.Descendants()...)
	resp.Stats.NumberOfNodes = len(nodes)
	for _, node := range nodes {
		resp.Stats.NumberOfProperties += len(node.Properties())
	}

	history, err := e.history(name)
	if err != nil {
		resp.Stats.OwnRuntime = time.Since(start).Seconds()
		return e.fail(l, resp, err)
	}

	key, err := history.Stream(ctx, func(w io.Writer) error {
		return e.write(w, root)
	})
	resp.Stats.OwnRuntime = time.Since(start).Seconds()
	if err != nil {
		metrics.HistoryPersistFailedCounter.WithLabelValues(name).Inc()
		return e.fail(l, resp, errors.Wrap(err, "could not persist document"))
	}

	resp.Success = true
	resp.Key = key
	metrics.ExportsCompletedCounter.WithLabelValues(name, string(e.mode)).Inc()
	metrics.ExportDuration.WithLabelValues(name, string(e.mode)).Observe(resp.Stats.OwnRuntime)
	metrics.ExportedNodesGauge.WithLabelValues(name).Set(float64(resp.Stats.NumberOfNodes))
	l.Info("export success",
		zap.String("key", key),
		zap.Int("num_nodes", resp.Stats.NumberOfNodes),
		zap.Int("num_properties", resp.Stats.NumberOfProperties),
		zap.Float64("own_runtime", resp.Stats.OwnRuntime),
	)
	return resp
}

func (e *Exporter) write(w io.Writer, root *cdf.Node) error {
	switch e.mode {
	case ModeDocument:
		doc, err := root.Document()
		if err != nil {
			return err
		}
		if e.indent > 0 {
			doc.Indent(e.indent)
		}
		_, err = doc.WriteTo(w)
		return errors.Wrap(err, "failed to write document")
	default:
		var opts []cdf.EncodeOption
		if e.indent > 0 {
			opts = append(opts, cdf.EncodeWithIndent("", strings.Repeat(" ", e.indent)))
		}
		return cdf.Encode(w, root, opts...)
	}
}

func (e *Exporter) history(name string) (*History, error) {
	e.historiesMu.Lock()
	defer e.historiesMu.Unlock()
	if h, ok := e.histories[name]; ok {
		return h, nil
	}
	h, err := NewHistory(e.l.Named("history"),
		HistoryWithStorage(e.storage),
		HistoryWithPrefix(name+"-"),
		HistoryWithHistoryLimit(e.historyLimit),
	)
	if err != nil {
		return nil, err
	}
	e.histories[name] = h
	return h, nil
}

func (e *Exporter) fail(l *zap.Logger, resp *responses.Export, err error) *responses.Export {
	resp.Success = false
	resp.ErrorMessage = err.Error()
	resp.Stats.NumberOfNodes = -1
	resp.Stats.NumberOfProperties = -1
	metrics.ExportsFailedCounter.WithLabelValues(resp.Document).Inc()
	l.Error("export failed", zap.Error(err))
	return resp
}
