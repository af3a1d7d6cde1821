package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recruit-backend/internal/analyses"
	"recruit-backend/internal/applications"
	"recruit-backend/internal/services/health"
	"recruit-backend/internal/shared/config"
)

func newTestRouter(cfg config.Config) http.Handler {
	apps := applications.NewMemoryRepo()
	analysisSvc := &analyses.Service{Repo: analyses.NewMemoryRepo(), Applications: apps}
	return NewRouter(RouterDeps{
		Config:             cfg,
		Health:             health.NewService(nil),
		AnalysisHandler:    analyses.NewHandler(analysisSvc),
		ApplicationHandler: applications.NewHandler(&applications.Service{Repo: apps}),
	})
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(config.Config{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var status health.Status
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.OK || status.Database != "memory" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterServesMetrics(t *testing.T) {
	router := newTestRouter(config.Config{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRouterMountsDomainRoutes(t *testing.T) {
	router := newTestRouter(config.Config{})

	for _, path := range []string{"/api/v1/applications/5", "/api/v1/applications/5/analysis", "/api/v1/postings/5/applications"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 from handler, got %d", path, resp.Code)
		}
		if resp.Body.Len() == 0 {
			t.Fatalf("%s: expected error envelope, got empty body", path)
		}
	}
}

func TestRouterRateLimitsAnalysisRuns(t *testing.T) {
	cfg := config.Config{RateLimit: config.RateLimitConfig{AnalysisPerSecond: 0.01, AnalysisBurst: 2}}
	router := newTestRouter(cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/analyses/retry/1", nil))
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusNotFound || codes[1] != http.StatusNotFound || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status codes: %v", codes)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("health should not be throttled, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9090": ":9090", ":7070": ":7070"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
