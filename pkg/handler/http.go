package handler

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/foomo/cdf/pkg/metrics"
	"github.com/foomo/cdf/responses"
	httputils "github.com/foomo/keel/utils/net/http"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Source is a watched document, see export.Watcher
	Source interface {
		Last() *responses.Export
		Document(ctx context.Context) ([]byte, error)
		Poll(ctx context.Context) *responses.Export
	}
	HTTP struct {
		l      *zap.Logger
		path   string
		source Source
	}
	HTTPOption func(*HTTP)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP serves the document of source below the base path
func NewHTTP(l *zap.Logger, source Source, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:      l.Named("http"),
		path:   "/cdf",
		source: source,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithBasePath(v string) HTTPOption {
	return func(o *HTTP) {
		o.path = strings.TrimSuffix(v, "/")
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, h.path+"/") {
		httputils.ServerError(h.l, w, r, http.StatusNotFound, errors.New("not found"))
		return
	}
	route := Route(strings.TrimPrefix(r.URL.Path, h.path+"/"))

	start := time.Now()
	status := h.handleRequest(w, r, route)
	result := "success"
	if status >= http.StatusBadRequest {
		result = "error"
	}
	metrics.ServiceRequestCounter.WithLabelValues(route.label(), result).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(route.label(), result).Observe(time.Since(start).Seconds())
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

// handleRequest writes the reply and returns its status code
func (h *HTTP) handleRequest(w http.ResponseWriter, r *http.Request, route Route) int {
	switch route {
	case RouteDocument:
		if r.Method != http.MethodGet {
			return h.error(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		}
		data, err := h.source.Document(r.Context())
		if errors.Is(err, os.ErrNotExist) {
			return h.error(w, r, http.StatusNotFound, errors.New("document not exported yet"))
		} else if err != nil {
			return h.error(w, r, http.StatusInternalServerError, errors.Wrap(err, "failed to read document"))
		}
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		_, _ = w.Write(data)
		return http.StatusOK
	case RouteStatus:
		if r.Method != http.MethodGet {
			return h.error(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		}
		last := h.source.Last()
		if last == nil {
			return h.error(w, r, http.StatusNotFound, errors.New("no export yet"))
		}
		return h.reply(w, r, last)
	case RouteUpdate:
		if r.Method != http.MethodPost {
			return h.error(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		}
		return h.reply(w, r, h.source.Poll(r.Context()))
	default:
		return h.error(w, r, http.StatusNotFound, errors.Errorf("unknown route: %s", route))
	}
}

func (h *HTTP) reply(w http.ResponseWriter, r *http.Request, resp *responses.Export) int {
	data, err := json.Marshal(resp)
	if err != nil {
		return h.error(w, r, http.StatusInternalServerError, errors.Wrap(err, "could not encode reply"))
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
	return http.StatusOK
}

func (h *HTTP) error(w http.ResponseWriter, r *http.Request, code int, err error) int {
	httputils.ServerError(h.l, w, r, code, err)
	return code
}
