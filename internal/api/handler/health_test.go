package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Status != "ok" || resp.Service != "cinegraph" {
		t.Errorf("response = %+v, want ok/cinegraph", resp)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
	}{
		{
			name: "all dependencies up",
			deps: map[string]Pinger{
				"postgres": pingerFunc(func(ctx context.Context) error { return nil }),
				"minio":    pingerFunc(func(ctx context.Context) error { return nil }),
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "one dependency down",
			deps: map[string]Pinger{
				"postgres": pingerFunc(func(ctx context.Context) error { return nil }),
				"minio":    pingerFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rec := httptest.NewRecorder()
			Ready(tt.deps)(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
