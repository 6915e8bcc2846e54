package client

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/penfolio/penfolio-cli/pkg/config"
)

// TestGetClientSingleton validates that GetClient returns same instance
func TestGetClientSingleton(t *testing.T) {
	if err := config.Init(filepath.Join(t.TempDir(), "config.toml")); err != nil {
		t.Fatal(err)
	}
	Reset()

	client1 := GetClient()
	client2 := GetClient()

	if client1 == nil {
		t.Fatal("GetClient should not return nil")
	}
	if client1 != client2 {
		t.Error("GetClient should return same instance")
	}

	Reset()
	if GetClient() == client1 {
		t.Error("Reset should force a new client")
	}
}

func TestClientUsesConfiguredBaseURL(t *testing.T) {
	if err := config.Init(filepath.Join(t.TempDir(), "config.toml")); err != nil {
		t.Fatal(err)
	}
	config.Set("api.base_url", "http://penfolio.test:8080")
	config.Set("api.timeout", 5)
	Reset()

	c := GetClient()
	if c.BaseURL != "http://penfolio.test:8080" {
		t.Errorf("BaseURL: got %q", c.BaseURL)
	}
	if c.GetClient().Timeout != 5*time.Second {
		t.Errorf("Timeout: got %v", c.GetClient().Timeout)
	}
}

func TestNewSendsUserAgent(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	resp, err := c.R().Get("/api/blogs")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		t.Errorf("status: got %d", resp.StatusCode())
	}
	if gotAgent != UserAgent {
		t.Errorf("User-Agent: got %q, want %q", gotAgent, UserAgent)
	}
}

func TestNewDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	resp, err := c.R().Get("/api/blogs")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode() != http.StatusServiceUnavailable {
		t.Errorf("status: got %d", resp.StatusCode())
	}
	if calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", calls)
	}
}
