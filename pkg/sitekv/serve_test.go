package sitekv

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/veldt-dev/veldt/pkg/assets"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededHandler(t *testing.T, manifest *assets.Manifest) *Handler {
	t.Helper()
	store := NewMemStore()
	ctx := context.Background()
	store.Put(ctx, "style.css", []byte("body{margin:0}"))
	store.Put(ctx, "style.11223344.css", []byte("body{margin:1px}"))
	store.Put(ctx, "app.wasm", []byte{0x00, 0x61, 0x73, 0x6d})
	return NewHandler(store, manifest, testLogger())
}

func TestHandlerServesAsset(t *testing.T) {
	h := seededHandler(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/style.css", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); !strings.Contains(got, "text/css") {
		t.Errorf("Content-Type = %q, want text/css", got)
	}
	if got := rr.Header().Get("Content-Length"); got != "14" {
		t.Errorf("Content-Length = %q, want 14", got)
	}
	if rr.Body.String() != "body{margin:0}" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestHandlerResolvesThroughManifest(t *testing.T) {
	m := assets.NewManifest()
	m.Set("style.css", "style.11223344.css")
	h := seededHandler(t, m)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/style.css", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "body{margin:1px}" {
		t.Errorf("body = %q, want the fingerprinted object", rr.Body.String())
	}
}

func TestHandlerHead(t *testing.T) {
	h := seededHandler(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, "/style.css", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("HEAD wrote %d body bytes, want 0", rr.Body.Len())
	}
	if got := rr.Header().Get("Content-Length"); got != "14" {
		t.Errorf("Content-Length = %q, want 14", got)
	}
}

func TestHandlerCacheControl(t *testing.T) {
	h := seededHandler(t, nil)
	h.CacheControl = "public, max-age=31536000, immutable"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/style.css", nil))

	if got := rr.Header().Get("Cache-Control"); got != h.CacheControl {
		t.Errorf("Cache-Control = %q, want %q", got, h.CacheControl)
	}
}

func TestHandlerErrors(t *testing.T) {
	h := seededHandler(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"missing asset", http.MethodGet, "/nope.css", http.StatusNotFound},
		{"no extension", http.MethodGet, "/Makefile", http.StatusUnsupportedMediaType},
		{"traversal", http.MethodGet, "/../etc/passwd", http.StatusBadRequest},
		{"empty path", http.MethodGet, "/", http.StatusBadRequest},
		{"post", http.MethodPost, "/style.css", http.StatusMethodNotAllowed},
		{"delete", http.MethodDelete, "/style.css", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "http://example.com/", nil)
			req.URL.Path = tt.path
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestHandlerUnderStripPrefix(t *testing.T) {
	h := seededHandler(t, nil)
	mux := http.NewServeMux()
	mux.Handle("/pkg/", http.StripPrefix("/pkg", h))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pkg/app.wasm", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/wasm" {
		t.Errorf("Content-Type = %q, want application/wasm", got)
	}
}

func TestAssetKey(t *testing.T) {
	tests := []struct {
		in  string
		key string
		ok  bool
	}{
		{"/style.css", "style.css", true},
		{"style.css", "style.css", true},
		{"/pkg/app.wasm", "pkg/app.wasm", true},
		{"//double//slash.css", "double/slash.css", true},
		{"/../x", "", false},
		{"/a/../../x", "", false},
		{"/", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		key, ok := assetKey(tt.in)
		if key != tt.key || ok != tt.ok {
			t.Errorf("assetKey(%q) = %q, %v; want %q, %v", tt.in, key, ok, tt.key, tt.ok)
		}
	}
}
