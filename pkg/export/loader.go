package export

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/foomo/cdf/cdf"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Loader reads JSON tree sources from local files or http(s) URLs
	Loader struct {
		l          *zap.Logger
		httpClient *http.Client
	}
	LoaderOption func(*Loader)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewLoader(l *zap.Logger, opts ...LoaderOption) *Loader {
	inst := &Loader{
		l:          l.Named("loader"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func LoaderWithHTTPClient(v *http.Client) LoaderOption {
	return func(o *Loader) {
		o.httpClient = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Load reads and decodes source. The raw bytes are returned as well, so that
// callers can tell whether a source changed.
func (l *Loader) Load(ctx context.Context, source string) (*cdf.Node, []byte, error) {
	data, err := l.Read(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	l.l.Debug("loading json", zap.String("source", source), zap.Int("length", len(data)))
	root, err := Decode(data)
	if err != nil {
		return nil, data, errors.Wrapf(err, "failed to decode %q", source)
	}
	return root, data, nil
}

// Read returns the raw bytes of source
func (l *Loader) Read(ctx context.Context, source string) ([]byte, error) {
	if isRemote(source) {
		return l.get(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %q", source)
	}
	return data, nil
}

// Decode decodes a JSON tree source
func Decode(data []byte) (*cdf.Node, error) {
	root := &cdf.Node{}
	if err := json.Unmarshal(data, root); err != nil {
		return nil, err
	}
	return root, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (l *Loader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create get source request")
	}
	req.Header.Set("Accept", "application/json")
	response, err := l.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get source")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("bad response code from source %q want %q", response.Status, http.StatusText(http.StatusOK))
	}

	body, err := decodeCharset(response.Body, response.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	if _, err := io.Copy(buffer, body); err != nil {
		return nil, errors.Wrap(err, "failed to copy IO stream")
	}
	return buffer.Bytes(), nil
}

// decodeCharset converts bodies with an explicit non utf-8 charset to utf-8
func decodeCharset(r io.Reader, contentType string) (io.Reader, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return r, nil //nolint:nilerr
	}
	cs, ok := params["charset"]
	if !ok || strings.EqualFold(cs, "utf-8") {
		return r, nil
	}
	enc, name := charset.Lookup(cs)
	if enc == nil {
		return nil, errors.Errorf("unsupported charset %q", cs)
	}
	if name == "utf-8" {
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}
