package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/doxly-hq/doxly-apiclient/internal/config"
	"github.com/doxly-hq/doxly-apiclient/internal/storage"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		APIBaseURL:      baseURL,
		HealthCheckPath: "/health-check/",
		CSRFCookieName:  "csrftoken",
		TokenStoreType:  "none",
		ProbeInterval:   10 * time.Millisecond,
	}
}

func TestAppCallUsesCatalogAndStoredToken(t *testing.T) {
	var path, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"id":7,"name":"Tower"}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL + "/api")
	cfg.TokenStoreType = "bbolt"
	cfg.TokenStorePath = filepath.Join(t.TempDir(), "session.db")

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if err := a.Store().SaveToken("Token stored-tok"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	got, err := a.Call(context.Background(), "project", map[string]string{"id": "7"}, nil, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]any{"id": 7.0, "name": "Tower"}) {
		t.Fatalf("unexpected result %#v", got)
	}
	if path != "/api/projects/7/" {
		t.Fatalf("unexpected path %s", path)
	}
	if auth != "Token stored-tok" {
		t.Fatalf("unexpected Authorization %q", auth)
	}
}

func TestAppCallErrors(t *testing.T) {
	a, err := New(testConfig("http://127.0.0.1:1/api"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, err := a.Call(context.Background(), "nope", nil, nil, nil); err == nil {
		t.Fatalf("expected unknown endpoint error")
	}
	if _, err := a.Call(context.Background(), "project", nil, nil, nil); err == nil {
		t.Fatalf("expected missing param error")
	}
}

func TestAppLoadsEndpointsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "endpoints.yaml")
	content := "endpoints:\n  - id: reports\n    path: /reports/\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write endpoints: %v", err)
	}

	cfg := testConfig("http://localhost:8000/api")
	cfg.EndpointsFile = file
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, ok := a.Catalog().ByID("reports"); !ok {
		t.Fatalf("custom endpoint missing")
	}
	if _, ok := a.Catalog().ByID("projects"); !ok {
		t.Fatalf("default endpoints should be kept")
	}
}

func TestAppWatchProbesUntilCancelled(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := New(testConfig(srv.URL), nil, WithStore(mustNoopStore(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := a.Watch(ctx); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if hits.Load() < 2 {
		t.Fatalf("expected repeated probes, got %d", hits.Load())
	}
}

func TestAppProbeUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	a, err := New(testConfig(base), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if res := a.Probe(context.Background()); res.OK || res.Status != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func mustNoopStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.NewStore("none", "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}
