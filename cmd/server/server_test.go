package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/config"
)

func newTestApp(t *testing.T, opts ...config.Option) *app {
	t.Helper()
	cfg, err := config.Load(append([]config.Option{config.WithEnvironment("testing")}, opts...)...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	a, err := newApp(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:8081")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServer_EditRegenerateAndServe(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, config.WithFilesystemStorage(dir))
	routes := a.Routes()

	rr := do(t, routes, http.MethodPut, "/api/v1/sections/hero", `{"title":"Ehab Live","image":"/hero.jpg"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"), "CORS outside production")

	rr = do(t, routes, http.MethodGet, "/content.json", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var content sitecontent.Content
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &content))
	assert.Equal(t, "Ehab Live", content.Hero.Title)

	rr = do(t, routes, http.MethodPost, "/api/regenerate-content", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	data, err := os.ReadFile(filepath.Join(dir, "public", "content.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Ehab Live"`)
}

func TestServer_ProductionHasNoCORS(t *testing.T) {
	a := newTestApp(t, config.WithEnvironment("production"))

	rr := do(t, a.Routes(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Body.String(), `"status":"healthy"`)
}

func TestServer_ServesFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"footer":{"services":"Weddings, Galas"}}`), 0644))

	a := newTestApp(t, config.WithContentSource("file://"+path))

	rr := do(t, a.Routes(), http.MethodGet, "/content.json", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var content sitecontent.Content
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &content))
	assert.Equal(t, []string{"Weddings", "Galas"}, content.Footer.Services)
}
