package tmdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hszk-dev/cinegraph/internal/domain/repository"
)

// mockDoer provides a configurable mock for httpDoer.
type mockDoer struct {
	doFn func(req *http.Request) (*http.Response, error)
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	if m.doFn != nil {
		return m.doFn(req)
	}
	return jsonResponse(http.StatusOK, `{}`), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func testFetcherConfig() FetcherConfig {
	return FetcherConfig{
		BaseURL:           "https://api.example.com/3",
		FallbackAddr:      "10.0.0.1",
		ImageBaseURL:      "https://image.example.com/t/p/w500",
		ImageFallbackAddr: "10.0.0.2",
		RequestTimeout:    time.Second,
		MaxInFlight:       12,
	}
}

func TestFetcher_GetJSON_PrimarySuccess(t *testing.T) {
	doer := &mockDoer{
		doFn: func(req *http.Request) (*http.Response, error) {
			if req.URL.Host != "api.example.com" {
				t.Errorf("request host = %q, want api.example.com", req.URL.Host)
			}
			return jsonResponse(http.StatusOK, `{"id": 550, "title": "Fight Club"}`), nil
		},
	}

	f, err := newFetcherWithClient(doer, testFetcherConfig())
	if err != nil {
		t.Fatalf("newFetcherWithClient failed: %v", err)
	}

	var got struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	if err := f.GetJSON(context.Background(), "/movie/550", url.Values{}, &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.ID != 550 || got.Title != "Fight Club" {
		t.Errorf("decoded %+v, want id=550 title=Fight Club", got)
	}
}

func TestFetcher_GetJSON_FallbackOnPrimaryFailure(t *testing.T) {
	var calls atomic.Int32
	doer := &mockDoer{
		doFn: func(req *http.Request) (*http.Response, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("connection refused")
			}
			// Fallback request targets the fixed address but keeps the
			// original host name in the Host header.
			if req.URL.Host != "10.0.0.1" {
				t.Errorf("fallback URL host = %q, want 10.0.0.1", req.URL.Host)
			}
			if req.Host != "api.example.com" {
				t.Errorf("fallback Host header = %q, want api.example.com", req.Host)
			}
			return jsonResponse(http.StatusOK, `{"id": 550}`), nil
		},
	}

	f, err := newFetcherWithClient(doer, testFetcherConfig())
	if err != nil {
		t.Fatalf("newFetcherWithClient failed: %v", err)
	}

	var got struct {
		ID int `json:"id"`
	}
	if err := f.GetJSON(context.Background(), "/movie/550", url.Values{}, &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.ID != 550 {
		t.Errorf("ID = %d, want 550", got.ID)
	}
	if calls.Load() != 2 {
		t.Errorf("doer called %d times, want 2", calls.Load())
	}
}

func TestFetcher_GetJSON_BothAttemptsFail(t *testing.T) {
	var calls atomic.Int32
	doer := &mockDoer{
		doFn: func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			return nil, errors.New("connection refused")
		},
	}

	f, err := newFetcherWithClient(doer, testFetcherConfig())
	if err != nil {
		t.Fatalf("newFetcherWithClient failed: %v", err)
	}

	var got struct{}
	err = f.GetJSON(context.Background(), "/movie/550", url.Values{}, &got)
	if !errors.Is(err, repository.ErrCatalogUnavailable) {
		t.Errorf("error = %v, want ErrCatalogUnavailable", err)
	}
	if calls.Load() != 2 {
		t.Errorf("doer called %d times, want exactly 2 (one fallback)", calls.Load())
	}
}

func TestFetcher_GetJSON_NotFound(t *testing.T) {
	doer := &mockDoer{
		doFn: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusNotFound, `{"status_message": "not found"}`), nil
		},
	}

	f, err := newFetcherWithClient(doer, testFetcherConfig())
	if err != nil {
		t.Fatalf("newFetcherWithClient failed: %v", err)
	}

	var got struct{}
	err = f.GetJSON(context.Background(), "/movie/999999999", url.Values{}, &got)
	if !errors.Is(err, repository.ErrMovieNotFound) {
		t.Errorf("error = %v, want ErrMovieNotFound", err)
	}
}

func TestFetcher_GetJSON_ConcurrencyCap(t *testing.T) {
	var inFlight, peak atomic.Int32
	doer := &mockDoer{
		doFn: func(req *http.Request) (*http.Response, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return jsonResponse(http.StatusOK, `{}`), nil
		},
	}

	f, err := newFetcherWithClient(doer, testFetcherConfig())
	if err != nil {
		t.Fatalf("newFetcherWithClient failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got struct{}
			if err := f.GetJSON(context.Background(), "/movie/popular", url.Values{}, &got); err != nil {
				t.Errorf("GetJSON failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if p := peak.Load(); p > 12 {
		t.Errorf("peak in-flight requests = %d, want <= 12", p)
	}
}

func TestFetcher_GetImage_NotFound(t *testing.T) {
	doer := &mockDoer{
		doFn: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusNotFound, ``), nil
		},
	}

	f, err := newFetcherWithClient(doer, testFetcherConfig())
	if err != nil {
		t.Fatalf("newFetcherWithClient failed: %v", err)
	}

	_, err = f.GetImage(context.Background(), "/missing.jpg")
	if !errors.Is(err, repository.ErrPosterNotFound) {
		t.Errorf("error = %v, want ErrPosterNotFound", err)
	}
}

func TestFetcher_GetImage_ReleasesSlotOnClose(t *testing.T) {
	doer := &mockDoer{
		doFn: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, "image-bytes"), nil
		},
	}

	cfg := testFetcherConfig()
	cfg.MaxInFlight = 1
	f, err := newFetcherWithClient(doer, cfg)
	if err != nil {
		t.Fatalf("newFetcherWithClient failed: %v", err)
	}

	body, err := f.GetImage(context.Background(), "/poster.jpg")
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "image-bytes" {
		t.Errorf("body = %q, want image-bytes", data)
	}
	if err := body.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// The slot must be free again for the next request.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	body, err = f.GetImage(ctx, "/poster.jpg")
	if err != nil {
		t.Fatalf("GetImage after Close failed: %v", err)
	}
	body.Close()
}
