// Package preview attaches a short readable excerpt of each place's web page
// to search results.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"github.com/hoanghai1803/tastemap/internal/models"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultConcurrent = 4
	defaultDelay      = 500 * time.Millisecond
	maxExcerptRunes   = 280
)

// ExtractFunc fetches pageURL and returns its readable excerpt.
type ExtractFunc func(ctx context.Context, pageURL string) (string, error)

// Fetcher fetches place pages with bounded concurrency and a minimum delay
// between requests to the same host.
type Fetcher struct {
	extract       ExtractFunc
	maxConcurrent int
	delay         time.Duration

	mu       sync.Mutex
	lastSeen map[string]time.Time // per-host last request time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithExtractFunc replaces the readability-based extractor.
func WithExtractFunc(fn ExtractFunc) Option {
	return func(f *Fetcher) { f.extract = fn }
}

// WithConcurrency caps the number of pages fetched at once.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxConcurrent = n
		}
	}
}

// WithHostDelay sets the minimum delay between requests to one host.
func WithHostDelay(d time.Duration) Option {
	return func(f *Fetcher) { f.delay = d }
}

// NewFetcher creates a Fetcher that extracts excerpts with go-readability.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		extract:       readabilityExcerpt(defaultTimeout),
		maxConcurrent: defaultConcurrent,
		delay:         defaultDelay,
		lastSeen:      make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// browserHeaders sets browser-like request headers so restaurant sites that
// check Accept or User-Agent do not reject the request.
func browserHeaders(r *http.Request) {
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	r.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8")
	r.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tastemap/1.0)")
}

func readabilityExcerpt(timeout time.Duration) ExtractFunc {
	return func(ctx context.Context, pageURL string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		article, err := readability.FromURL(pageURL, timeout, browserHeaders)
		if err != nil {
			return "", fmt.Errorf("readability extraction: %w", err)
		}
		excerpt := article.Excerpt
		if excerpt == "" {
			excerpt = article.TextContent
		}
		return excerpt, nil
	}
}

// Attach returns a copy of places with Excerpt filled in for every place that
// has an http(s) link. Pages that fail to load are logged and skipped, so
// Attach never fails the whole batch.
func (f *Fetcher) Attach(ctx context.Context, places []models.PlaceResult) []models.PlaceResult {
	out := make([]models.PlaceResult, len(places))
	copy(out, places)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)

	for i := range out {
		link := out[i].Link
		host, ok := pageHost(link)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := f.waitForHost(ctx, host); err != nil {
				return nil
			}
			text, err := f.extract(ctx, link)
			if err != nil {
				slog.Warn("failed to fetch place preview", "url", link, "error", err)
				return nil
			}
			// Each goroutine owns out[i].
			out[i].Excerpt = truncateRunes(collapseSpace(text), maxExcerptRunes)
			return nil
		})
	}

	_ = g.Wait()
	return out
}

// waitForHost blocks until delay has passed since the previous request to
// host, or ctx is done.
func (f *Fetcher) waitForHost(ctx context.Context, host string) error {
	for {
		f.mu.Lock()
		wait := f.delay - time.Since(f.lastSeen[host])
		if _, seen := f.lastSeen[host]; !seen || wait <= 0 {
			f.lastSeen[host] = time.Now()
			f.mu.Unlock()
			return nil
		}
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func pageHost(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return u.Hostname(), true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes cuts s to at most n runes, appending "…" when it was cut.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
