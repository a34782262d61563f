// Package tmdb implements the catalog client for The Movie Database API.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/hszk-dev/cinegraph/internal/domain/repository"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/metrics"
)

// httpDoer abstracts *http.Client for testability.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetcherConfig holds configuration for the bounded fetcher.
type FetcherConfig struct {
	BaseURL           string        // API base, e.g. https://api.themoviedb.org/3
	FallbackAddr      string        // fixed address tried when the primary host fails
	ImageBaseURL      string        // image base, e.g. https://image.tmdb.org/t/p/w500
	ImageFallbackAddr string        // fixed address for image fallback
	RequestTimeout    time.Duration // per-attempt timeout
	MaxInFlight       int64         // global cap on concurrent outbound requests
	RatePerSecond     float64       // outbound token-bucket rate; <=0 disables
	RateBurst         int
}

// DefaultFetcherConfig returns a FetcherConfig with the catalog's
// production endpoints and limits.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		BaseURL:           "https://api.themoviedb.org/3",
		FallbackAddr:      "65.9.175.66",
		ImageBaseURL:      "https://image.tmdb.org/t/p/w500",
		ImageFallbackAddr: "185.93.2.243",
		RequestTimeout:    15 * time.Second,
		MaxInFlight:       12,
		RatePerSecond:     4,
		RateBurst:         8,
	}
}

// Fetcher performs GET requests against the catalog with a global
// admission gate, an outbound rate limit, and a single fallback attempt
// against a fixed address when the primary host fails. Failed requests
// surface as sentinel errors, never as panics: absence of data is an
// expected condition for callers.
type Fetcher struct {
	client  httpDoer
	gate    *semaphore.Weighted
	limiter *rate.Limiter

	base              *url.URL
	fallbackAddr      string
	imageBase         *url.URL
	imageFallbackAddr string
}

// NewFetcher creates a Fetcher from config.
func NewFetcher(cfg FetcherConfig) (*Fetcher, error) {
	client := &http.Client{Timeout: cfg.RequestTimeout}
	return newFetcherWithClient(client, cfg)
}

// newFetcherWithClient creates a Fetcher with a given httpDoer.
// This is used for dependency injection in tests.
func newFetcherWithClient(client httpDoer, cfg FetcherConfig) (*Fetcher, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	imageBase, err := url.Parse(cfg.ImageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse image base URL: %w", err)
	}

	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 12
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)
	}

	return &Fetcher{
		client:            client,
		gate:              semaphore.NewWeighted(cfg.MaxInFlight),
		limiter:           limiter,
		base:              base,
		fallbackAddr:      cfg.FallbackAddr,
		imageBase:         imageBase,
		imageFallbackAddr: cfg.ImageFallbackAddr,
	}, nil
}

// GetJSON fetches path (relative to the API base) with the given query and
// decodes the response body into dst. On any primary failure (network
// error, timeout, non-2xx, malformed body) exactly one fallback attempt is
// made against the fixed fallback address, preserving the original host
// name in the Host header and the original path and query. Returns
// repository.ErrMovieNotFound when the catalog answered 404, and
// repository.ErrCatalogUnavailable when both attempts failed otherwise.
func (f *Fetcher) GetJSON(ctx context.Context, path string, query url.Values, dst any) error {
	if err := f.acquire(ctx); err != nil {
		return err
	}
	defer f.release()

	primary := *f.base
	primary.Path = f.base.Path + path
	primary.RawQuery = query.Encode()

	notFound := false

	body, status, err := f.attempt(ctx, &primary, "")
	f.observe(metrics.HostPrimary, status, err)
	if err == nil {
		if jsonErr := json.Unmarshal(body, dst); jsonErr == nil {
			return nil
		}
	}
	if status == http.StatusNotFound {
		notFound = true
	}

	fallback := primary
	fallback.Host = f.fallbackAddr

	body, status, err = f.attempt(ctx, &fallback, primary.Host)
	f.observe(metrics.HostFallback, status, err)
	if err == nil {
		if jsonErr := json.Unmarshal(body, dst); jsonErr == nil {
			return nil
		}
	}
	if status == http.StatusNotFound {
		notFound = true
	}

	if notFound {
		return repository.ErrMovieNotFound
	}
	return repository.ErrCatalogUnavailable
}

// GetImage streams an image by its catalog-relative path, with the same
// two-host fallback discipline as GetJSON. The admission slot is held
// until the returned ReadCloser is closed.
func (f *Fetcher) GetImage(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := f.acquire(ctx); err != nil {
		return nil, err
	}

	primary := *f.imageBase
	primary.Path = f.imageBase.Path + path

	body, status, err := f.stream(ctx, &primary, "")
	f.observe(metrics.HostPrimary, status, err)
	if err == nil {
		return &gatedBody{ReadCloser: body, release: f.release}, nil
	}
	notFound := status == http.StatusNotFound

	fallback := primary
	fallback.Host = f.imageFallbackAddr

	body, status, err = f.stream(ctx, &fallback, primary.Host)
	f.observe(metrics.HostFallback, status, err)
	if err == nil {
		return &gatedBody{ReadCloser: body, release: f.release}, nil
	}

	f.release()
	if notFound || status == http.StatusNotFound {
		return nil, repository.ErrPosterNotFound
	}
	return nil, repository.ErrCatalogUnavailable
}

// attempt performs one GET and returns the full body. status is zero when
// the request never produced a response.
func (f *Fetcher) attempt(ctx context.Context, u *url.URL, hostOverride string) ([]byte, int, error) {
	body, status, err := f.stream(ctx, u, hostOverride)
	if err != nil {
		return nil, status, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, status, fmt.Errorf("read body: %w", err)
	}
	return data, status, nil
}

func (f *Fetcher) stream(ctx context.Context, u *url.URL, hostOverride string) (io.ReadCloser, int, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cinegraph/1.0")
	if hostOverride != "" {
		req.Host = hostOverride
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, resp.StatusCode, nil
}

func (f *Fetcher) acquire(ctx context.Context) error {
	if err := f.gate.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire admission slot: %w", err)
	}
	metrics.CatalogInFlight.Inc()
	return nil
}

func (f *Fetcher) release() {
	metrics.CatalogInFlight.Dec()
	f.gate.Release(1)
}

func (f *Fetcher) observe(host string, status int, err error) {
	outcome := metrics.FetchOutcomeOK
	switch {
	case status == http.StatusNotFound:
		outcome = metrics.FetchOutcomeNotFound
	case err != nil:
		outcome = metrics.FetchOutcomeError
	}
	metrics.CatalogFetchesTotal.WithLabelValues(host, outcome).Inc()
}

// gatedBody releases the admission slot when the image stream is closed.
type gatedBody struct {
	io.ReadCloser
	release func()
	closed  bool
}

func (b *gatedBody) Close() error {
	err := b.ReadCloser.Close()
	if !b.closed {
		b.closed = true
		b.release()
	}
	return err
}
