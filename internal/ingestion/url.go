package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/resume-tailor/internal/fetch"
)

var (
	// ErrHTTPRequestFailed wraps fetch failures.
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed wraps HTML parsing failures.
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// URLIngester fetches postings from job boards.
type URLIngester struct {
	Fetcher  fetch.PageFetcher
	Renderer fetch.Renderer // optional; used when the fetched page is mostly empty
	Verbose  bool
}

// NewURLIngester uses a plain HTTP fetcher and no browser fallback.
func NewURLIngester(verbose bool) *URLIngester {
	return &URLIngester{Fetcher: fetch.New(nil), Verbose: verbose}
}

// IngestFromURL is a convenience wrapper around a default URLIngester.
func IngestFromURL(ctx context.Context, urlStr string, useBrowser bool, verbose bool) (string, *Metadata, error) {
	ing := NewURLIngester(verbose)
	if useBrowser {
		ing.Renderer = fetch.NewChromeRenderer(verbose)
	}
	return ing.Ingest(ctx, urlStr)
}

// Ingest fetches urlStr, extracts the posting body with platform-aware
// selectors, and cleans it.
func (u *URLIngester) Ingest(ctx context.Context, urlStr string) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	u.logf("URL: %s (platform %s)", urlStr, platform)

	result, err := u.Fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	u.logf("Fetched HTML: %d bytes", len(result.HTML))

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	u.logf("Extracted text: %d chars", len(text))

	rendered := false
	if u.Renderer != nil && fetch.ShouldUseBrowser(text) {
		u.logf("Content too short (%d < %d chars), rendering in browser", len(text), fetch.MinContentLength)
		html, renderErr := u.Renderer.Render(ctx, urlStr)
		switch {
		case renderErr != nil:
			u.logf("Browser rendering failed, keeping HTTP content: %v", renderErr)
		default:
			if browserText, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...); err == nil && len(browserText) > len(text) {
				text = browserText
				rendered = true
				u.logf("Browser extracted text: %d chars", len(text))
			}
		}
	}

	cleaned, metadata, err := IngestText(text, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	metadata.Platform = string(platform)
	metadata.Rendered = rendered
	metadata.Links = fetch.ExtractLinks(result.HTML, urlStr)

	return cleaned, metadata, nil
}

func (u *URLIngester) logf(format string, args ...any) {
	if u.Verbose {
		log.Printf("[VERBOSE] "+format, args...)
	}
}
