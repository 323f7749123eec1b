package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foomo/cdf/pkg/metrics"
	"github.com/foomo/cdf/responses"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type (
	// Watcher polls a source and exports it whenever its content changes
	Watcher struct {
		l            *zap.Logger
		source       string
		name         string
		exporter     *Exporter
		loader       *Loader
		pollInterval time.Duration
		onExported   func(resp *responses.Export)
		loaded       *atomic.Bool
		last         atomic.Pointer[responses.Export]
		pollMu       sync.Mutex
		lastSum      []byte
	}
	WatcherOption func(*Watcher)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewWatcher(l *zap.Logger, source string, exporter *Exporter, loader *Loader, opts ...WatcherOption) *Watcher {
	inst := &Watcher{
		l:            l.Named("watcher"),
		source:       source,
		name:         DocumentName(source),
		exporter:     exporter,
		loader:       loader,
		pollInterval: time.Minute,
		loaded:       &atomic.Bool{},
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WatcherWithPollInterval(v time.Duration) WatcherOption {
	return func(o *Watcher) {
		o.pollInterval = v
	}
}

// WatcherWithOnExported is called after every poll that did export
func WatcherWithOnExported(fn func(resp *responses.Export)) WatcherOption {
	return func(o *Watcher) {
		o.onExported = fn
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

// Loaded reports whether at least one export succeeded
func (w *Watcher) Loaded() bool {
	return w.loaded.Load()
}

// Name of the exported document
func (w *Watcher) Name() string {
	return w.name
}

// Last returns the response of the last poll that did not find the source
// unchanged, nil before the first poll
func (w *Watcher) Last() *responses.Export {
	return w.last.Load()
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Document returns the current XML document
func (w *Watcher) Document(ctx context.Context) ([]byte, error) {
	return w.exporter.Current(ctx, w.name)
}

// Start exports once and then polls until ctx is done
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.validate(); err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)

	l := w.l.Named("start")
	l.Debug("trying to export initial state")
	if resp := w.Poll(ctx); !resp.Success {
		l.Error("failed to export initial state", zap.String("error", resp.ErrorMessage))
	}

	g.Go(func() error {
		l.Debug("starting poll routine")
		return w.PollRoutine(gCtx)
	})

	return g.Wait()
}

func (w *Watcher) PollRoutine(ctx context.Context) error {
	if err := w.validate(); err != nil {
		return err
	}
	l := w.l.Named("routine.poll")
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			resp := w.Poll(ctx)
			switch {
			case resp.Unchanged:
				l.Debug("source is up to date")
			case resp.Success:
				l.Info("export success", zap.String("key", resp.Key))
			default:
				l.Error("export failed", zap.String("error", resp.ErrorMessage))
			}
		}
	}
}

// Poll loads the source and exports it unless it is unchanged since the last
// successful export
func (w *Watcher) Poll(ctx context.Context) *responses.Export {
	w.pollMu.Lock()
	defer w.pollMu.Unlock()

	start := time.Now()
	root, data, err := w.loader.Load(ctx, w.source)
	loadRuntime := time.Since(start).Seconds()
	if err != nil {
		resp := &responses.Export{Document: w.name, Source: w.source}
		resp.Stats.LoadRuntime = loadRuntime
		resp = w.exporter.fail(w.l, resp, err)
		w.last.Store(resp)
		return resp
	}

	sum := sha256.Sum256(data)
	if w.Loaded() && bytes.Equal(sum[:], w.lastSum) {
		metrics.SourceUnchangedCounter.WithLabelValues(w.name).Inc()
		return &responses.Export{
			Document:  w.name,
			Source:    w.source,
			Success:   true,
			Unchanged: true,
		}
	}

	resp := w.exporter.ExportTree(ctx, w.name, root)
	resp.Source = w.source
	resp.Stats.LoadRuntime = loadRuntime
	if resp.Success {
		w.lastSum = sum[:]
		if !w.Loaded() {
			w.loaded.Store(true)
			w.l.Info("initial export success")
		}
	}
	w.last.Store(resp)
	if w.onExported != nil {
		w.onExported(resp)
	}
	return resp
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (w *Watcher) validate() error {
	if w.pollInterval <= 0 {
		return errors.Errorf("poll interval must be positive, got %s", w.pollInterval)
	}
	return nil
}
