package mock

import (
	"net/http"
	"net/http/httptest"
	"path"
	"runtime"
	"testing"
	"time"
)

// GetMockData serves the json files next to this file and returns the server
// and a temporary output dir
func GetMockData(tb testing.TB) (*httptest.Server, string) {
	tb.Helper()
	_, filename, _, _ := runtime.Caller(0)
	mockDir := path.Dir(filename)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(time.Millisecond * 10)
		mockFilename := path.Join(mockDir, req.URL.Path[1:])
		http.ServeFile(w, req, mockFilename)
	}))
	tb.Cleanup(server.Close)

	return server, tb.TempDir()
}

// Path absolute path of a mock file
func Path(name string) string {
	_, filename, _, _ := runtime.Caller(0)
	return path.Join(path.Dir(filename), name)
}
