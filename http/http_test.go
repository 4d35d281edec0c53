package http_test

import (
	"net/http"
	"net/http/httptest"
	"path"
	"regexp"
	"testing"
)

// newTestServer serves content keyed by request path. {{BASE}} in a body is
// replaced with the server URL. Unknown paths return 404.
func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = replaceBaseURL(body, srv.URL)

		switch path.Ext(r.URL.Path) {
		case ".txt":
			w.Header().Set("Content-Type", "text/plain")
		case ".pdf":
			w.Header().Set("Content-Type", "application/pdf")
		case ".json":
			w.Header().Set("Content-Type", "application/json")
		case ".html":
			w.Header().Set("Content-Type", "text/html")
		default:
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func replaceBaseURL(content, baseURL string) string {
	return regexp.MustCompile(`\{\{BASE\}\}`).ReplaceAllString(content, baseURL)
}
