package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jonathan/resume-tailor/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Backend Engineer</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, &Options{Headers: map[string]string{"X-Test": "yes"}})
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Backend Engineer</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
}

func TestFetch_InvalidURL(t *testing.T) {
	for _, u := range []string{"not-a-valid-url", "ftp://example.com/job"} {
		_, err := URL(context.Background(), u, nil)
		require.Error(t, err)

		var fetchErr *Error
		assert.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, u, fetchErr.URL)
	}
}

func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<div class="sidebar">Sidebar junk</div>
			<div class="job-description">
				<h2>Requirements</h2>
				<ul>
					<li>5 years   experience in Go</li>
					<li>PostgreSQL</li>
				</ul>
				<form>Apply now</form>
			</div>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, JobPostingSelectors(), PlatformNoiseSelectors(PlatformUnknown)...)
	require.NoError(t, err)
	assert.Equal(t, "Requirements\n- 5 years experience in Go\n- PostgreSQL", text)
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><div>Some content here.</div></body></html>`, []string{"#missing"})
	require.NoError(t, err)
	assert.Equal(t, "Some content here.", text)
}

func TestExtractLinks(t *testing.T) {
	html := `<a href="/apply">Apply</a><a href="https://acme.com/about#team">About</a>
		<a href="https://acme.com/about">Again</a><a href="mailto:jobs@acme.com">Mail</a>`

	links := ExtractLinks(html, "https://jobs.acme.com/posting/1")
	assert.Equal(t, []string{"https://jobs.acme.com/apply", "https://acme.com/about"}, links)
}

type countingFetcher struct {
	calls int32
	err   error
}

func (c *countingFetcher) Fetch(_ context.Context, urlStr string) (*Result, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.err != nil {
		return nil, c.err
	}
	return &Result{URL: urlStr, HTML: "<p>job</p>", StatusCode: http.StatusOK}, nil
}

func TestCachedFetcher(t *testing.T) {
	ctx := context.Background()
	inner := &countingFetcher{}
	f := NewCachedFetcher(inner, cache.NewMemoryCache(), 0)

	first, err := f.Fetch(ctx, "https://example.com/job")
	require.NoError(t, err)
	second, err := f.Fetch(ctx, "https://example.com/job")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, http.StatusOK, second.StatusCode)
}

func TestCachedFetcher_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingFetcher{err: errors.New("boom")}
	f := NewCachedFetcher(inner, cache.NewMemoryCache(), 0)

	_, err := f.Fetch(ctx, "https://example.com/job")
	require.Error(t, err)
	_, err = f.Fetch(ctx, "https://example.com/job")
	require.Error(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}
