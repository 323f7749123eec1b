package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/foomo/cdf/cdf"
	"github.com/foomo/cdf/pkg/export/mock"
	"github.com/foomo/cdf/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestExporter(t *testing.T, opts ...Option) (*Exporter, Storage) {
	t.Helper()
	var (
		l          = zaptest.NewLogger(t)
		storage, _ = NewFilesystemStorage(t.TempDir())
	)
	return New(l, NewLoader(l), storage, opts...), storage
}

func readCurrent(t *testing.T, s Storage, name string) *etree.Element {
	t.Helper()
	data, err := s.Read(context.Background(), name+"-current.xml")
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func TestDocumentName(t *testing.T) {
	tests := map[string]string{
		"city.json":                         "city",
		"/tmp/out/city.metrics.json":        "city.metrics",
		"https://example.com/a/b/town.json": "town",
		"https://example.com/":              "cdf",
		"":                                  "cdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, DocumentName(in), in)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Document")
	require.NoError(t, err)
	assert.Equal(t, ModeDocument, m)

	_, err = ParseMode("dom")
	require.Error(t, err)
}

func TestExporter_Export(t *testing.T) {
	for _, mode := range []Mode{ModeStream, ModeDocument} {
		t.Run(string(mode), func(t *testing.T) {
			e, storage := newTestExporter(t, WithMode(mode))

			resp := e.Export(context.Background(), mock.Path("city.json"))
			require.True(t, resp.Success, resp.ErrorMessage)
			assert.Equal(t, "city", resp.Document)
			assert.Equal(t, 4, resp.Stats.NumberOfNodes)
			assert.Equal(t, 7, resp.Stats.NumberOfProperties)
			assert.True(t, strings.HasPrefix(resp.Key, "city-"))

			root := readCurrent(t, storage, "city")
			assert.Equal(t, "element", root.Tag)
			assert.Equal(t, "package", root.SelectAttrValue("type", ""))
			children := root.SelectElement("children").SelectElements("element")
			require.Len(t, children, 2)
			assert.Equal(t, "Main", children[0].SelectAttrValue("name", ""))

			util := children[1].SelectElement("children")
			if mode == ModeStream {
				assert.Equal(t, "util payload", util.Text())
			} else {
				assert.Empty(t, util.Text())
			}
		})
	}
}

func TestExporter_ExportIndent(t *testing.T) {
	for _, mode := range []Mode{ModeStream, ModeDocument} {
		t.Run(string(mode), func(t *testing.T) {
			e, storage := newTestExporter(t, WithMode(mode), WithIndent(2))

			resp := e.Export(context.Background(), mock.Path("city.json"))
			require.True(t, resp.Success, resp.ErrorMessage)

			data, err := storage.Read(context.Background(), "city-current.xml")
			require.NoError(t, err)
			assert.Contains(t, string(data), "\n  <children>")
		})
	}
}

func TestExporter_ExportInvalid(t *testing.T) {
	e, storage := newTestExporter(t)

	resp := e.Export(context.Background(), mock.Path("invalid.json"))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "missing type")
	assert.Equal(t, -1, resp.Stats.NumberOfNodes)

	keys, err := storage.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, keys, "nothing is written for an invalid tree")
}

func TestExporter_ExportBroken(t *testing.T) {
	e, _ := newTestExporter(t)

	resp := e.Export(context.Background(), mock.Path("broken.json"))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ErrorMessage)
}

func TestExporter_ExportTree(t *testing.T) {
	e, storage := newTestExporter(t, WithHistoryLimit(1))

	root := cdf.NewNode("Foo", "Bar")
	root.AddProperty("x", "1", cdf.PropertyTypeString)

	for i := 0; i < 3; i++ {
		resp := e.ExportTree(context.Background(), "foo", root)
		require.True(t, resp.Success, resp.ErrorMessage)
	}

	data, err := storage.Read(context.Background(), "foo-current.xml")
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><element name="Foo" type="bar"><children></children><properties><property name="x" value="1" type="string"></property></properties></element>`, string(data))

	keys, err := storage.List(context.Background(), "foo-")
	require.NoError(t, err)
	assert.Len(t, keys, 2, "current plus one backup")
}

func TestExporter_ExportAll(t *testing.T) {
	var (
		mockServer, _ = mock.GetMockData(t)
		e, storage    = newTestExporter(t, WithConcurrency(2))
	)

	resps, err := e.ExportAll(context.Background(),
		mock.Path("city.json"),
		mockServer.URL+"/invalid.json",
		mock.Path("broken.json"),
	)
	require.Error(t, err)
	require.Len(t, resps, 3)
	assert.True(t, resps[0].Success)
	assert.False(t, resps[1].Success)
	assert.False(t, resps[2].Success)
	assert.Contains(t, err.Error(), "invalid: ")
	assert.Contains(t, err.Error(), "broken: ")

	readCurrent(t, storage, "city")
}

func TestExporter_ExportAll_DuplicateNames(t *testing.T) {
	var (
		mockServer, _ = mock.GetMockData(t)
		e, _          = newTestExporter(t)
	)

	_, err := e.ExportAll(context.Background(), mock.Path("city.json"), mockServer.URL+"/city.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateDocument)
}

func TestExporter_ModesAgree(t *testing.T) {
	var (
		ctx            = context.Background()
		stream, sOut   = newTestExporter(t, WithMode(ModeStream))
		document, dOut = newTestExporter(t, WithMode(ModeDocument))
	)
	require.True(t, stream.Export(ctx, mock.Path("city.json")).Success)
	require.True(t, document.Export(ctx, mock.Path("city.json")).Success)

	names := func(e *etree.Element) string {
		var b bytes.Buffer
		for _, el := range append([]*etree.Element{e}, e.FindElements("//element")...) {
			b.WriteString(el.SelectAttrValue("name", "") + ",")
		}
		return b.String()
	}
	assert.Equal(t, names(readCurrent(t, dOut, "city")), names(readCurrent(t, sOut, "city")))
}

func TestExporter_ExportNegativeHistoryLimit(t *testing.T) {
	e, storage := newTestExporter(t, WithHistoryLimit(-1))

	var resp *responses.Export
	require.NotPanics(t, func() {
		resp = e.Export(context.Background(), mock.Path("city.json"))
	})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorMessage, "history limit")

	keys, err := storage.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
