package ui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/penguineda/internal/testutil"
	"github.com/leapstack-labs/penguineda/internal/ui/features"
	"github.com/leapstack-labs/penguineda/internal/ui/router"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	fixture := features.SetupTestFixture(t)
	cfg.Engine = fixture.Engine
	cfg.SessionSecret = "test-secret-key-32-bytes-long!!"
	cfg.Logger = testutil.NewTestLogger(t)
	return NewServer(cfg)
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx // test helper
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t, Config{RepoURL: "https://example.com/repo"})
	handler, err := s.Handler()
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	defer ts.Close()

	tests := []struct {
		path     string
		wantType string
		wantBody string
	}{
		{path: "/", wantType: "text/html", wantBody: "Palmer Penguins"},
		{path: "/healthz", wantType: "application/json", wantBody: `"status":"ok"`},
		{path: "/metrics", wantType: "text/plain", wantBody: "penguineda_sessions_active"},
		{path: "/charts/density.svg", wantType: "image/svg+xml", wantBody: "<svg"},
		{path: "/static/app.css", wantType: "text/css", wantBody: ".layout"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), tt.wantType)
			assert.Contains(t, body, tt.wantBody)
		})
	}
}

func TestServer_Healthz(t *testing.T) {
	s := newTestServer(t, Config{})
	handler, err := s.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var got struct {
		Status   string `json:"status"`
		Records  int    `json:"records"`
		Sessions int    `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, len(s.engine.Source()), got.Records)
}

func TestServer_DevRoutes(t *testing.T) {
	prod := newTestServer(t, Config{})
	assert.False(t, prod.IsDev())
	handler, err := prod.Handler()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	dev := newTestServer(t, Config{Watch: true})
	assert.True(t, dev.IsDev())
	handler, err = dev.Handler()
	require.NoError(t, err)

	pings := dev.Notifier().Subscribe(router.ReloadTopic)
	defer dev.Notifier().Unsubscribe(pings)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-pings:
	case <-time.After(time.Second):
		t.Fatal("hotreload did not notify reload listeners")
	}
}

func TestServer_WatchFilesReloadsOnAssetChange(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, Config{Watch: true, StaticDir: dir})

	pings := s.Notifier().Subscribe(router.ReloadTopic)
	defer s.Notifier().Unsubscribe(pings)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchFiles(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o600))

	select {
	case <-pings:
	case <-time.After(2 * time.Second):
		t.Fatal("asset change did not trigger a reload")
	}
}

func TestServer_URL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", NewServer(Config{Port: 8080}).URL())
	assert.Equal(t, "http://127.0.0.1:9000", NewServer(Config{Host: "127.0.0.1", Port: 9000}).URL())
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, Config{Host: "127.0.0.1", Port: 0})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
