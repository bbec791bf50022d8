package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cabewaldrop/minisql/internal/config"
)

// testConfig returns the default configuration with a small source limit.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.Server{
			Port:         0,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Output:  config.Output{Format: "text"},
		Log:     config.Log{Level: "info"},
		Analyze: config.Analyze{MaxSourceBytes: 1024},
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	srv := NewServer(testConfig(), nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestServerStartup(t *testing.T) {
	_, ts := newTestServer(t)

	// Test health endpoint
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Failed to GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if string(body) != "ok" {
		t.Errorf("Expected body 'ok', got %q", string(body))
	}
}

func TestServerRecovery(t *testing.T) {
	srv := NewServer(testConfig(), nil)

	// Add a route that panics
	srv.router.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	// Request the panic route - should recover and return 500
	resp, err := http.Get(ts.URL + "/panic")
	if err != nil {
		t.Fatalf("Failed to GET /panic: %v", err)
	}
	defer resp.Body.Close()

	// chi's Recoverer middleware returns 500 on panic
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500 after panic, got %d", resp.StatusCode)
	}
}

func TestServerRequestTimeoutFollowsWriteTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Server.WriteTimeout = 50 * time.Millisecond
	srv := NewServer(cfg, nil)

	// Block until the request context is cancelled
	srv.router.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	start := time.Now()
	resp, err := http.Get(ts.URL + "/slow")
	if err != nil {
		t.Fatalf("Failed to GET /slow: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Errorf("Expected status 504, got %d", resp.StatusCode)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected request to be cut off near the write timeout, took %v", elapsed)
	}
}

func TestRequestTimeout(t *testing.T) {
	if got := requestTimeout(config.Server{WriteTimeout: 5 * time.Second}); got != 5*time.Second {
		t.Errorf("Expected 5s, got %v", got)
	}
	if got := requestTimeout(config.Server{}); got != defaultRequestTimeout {
		t.Errorf("Expected default %v, got %v", defaultRequestTimeout, got)
	}
}

func TestServer404(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("Failed to GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestServerMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/analyze")
	if err != nil {
		t.Fatalf("Failed to GET /api/analyze: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}
}
