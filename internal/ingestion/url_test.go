package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<!DOCTYPE html>
<html>
<body>
<nav>Nav</nav>
<main>
<h1>Senior Software Engineer</h1>
<h2>Requirements</h2>
<ul>
<li>Go experience</li>
<li>Distributed systems</li>
</ul>
<a href="/apply">Apply</a>
</main>
<footer>Footer</footer>
</body>
</html>`

func TestIngestFromURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	text, meta, err := IngestFromURL(context.Background(), server.URL, false, false)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Software Engineer")
	assert.Contains(t, text, "- Go experience")
	assert.NotContains(t, text, "Footer")
	assert.NotContains(t, text, "Nav")
	assert.Equal(t, server.URL, meta.URL)
	assert.Equal(t, string(fetch.PlatformUnknown), meta.Platform)
	assert.Equal(t, []string{server.URL + "/apply"}, meta.Links)
	assert.False(t, meta.Rendered)
}

func TestIngestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, false, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)

	var fetchErr *fetch.Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestIngestFromURL_InvalidURL(t *testing.T) {
	_, _, err := IngestFromURL(context.Background(), "not a url", false, false)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

type stubRenderer struct {
	html  string
	err   error
	calls int
}

func (s *stubRenderer) Render(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.html, s.err
}

func TestURLIngester_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root"></div><p>Loading</p></body></html>`))
	}))
	defer server.Close()

	long := strings.Repeat("Build reliable services in Go. ", 30)
	renderer := &stubRenderer{html: "<html><body><main><p>" + long + "</p></main></body></html>"}
	ing := &URLIngester{Fetcher: fetch.New(nil), Renderer: renderer}

	text, meta, err := ing.Ingest(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.True(t, meta.Rendered)
	assert.Contains(t, text, "Build reliable services in Go.")
}

func TestURLIngester_BrowserFailureKeepsHTTPContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Short posting for a Go developer</p></body></html>`))
	}))
	defer server.Close()

	renderer := &stubRenderer{err: errors.New("chrome missing")}
	ing := &URLIngester{Fetcher: fetch.New(nil), Renderer: renderer}

	text, meta, err := ing.Ingest(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Short posting for a Go developer", text)
	assert.False(t, meta.Rendered)
}

func TestURLIngester_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>app()</script></body></html>`))
	}))
	defer server.Close()

	_, _, err := NewURLIngester(false).Ingest(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrContentExtractionFailed)
	assert.ErrorIs(t, err, ErrEmptyPosting)
}
