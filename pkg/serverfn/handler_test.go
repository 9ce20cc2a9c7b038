package serverfn

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mountRegistry(reg *Registry) chi.Router {
	r := chi.NewRouter()
	handler := reg.Handler(testLogger())
	r.Get("/api/{name}", handler)
	r.Post("/api/{name}", handler)
	return r
}

func TestHandlerDispatch(t *testing.T) {
	reg := NewRegistry()
	RegisterOn(reg, "greet", EncodingGetJSON, func(ctx context.Context, arg struct {
		Name string `json:"name"`
	}) (string, error) {
		return "hello " + arg.Name, nil
	})

	r := mountRegistry(reg)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/greet?name=ada", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var result string
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result != "hello ada" {
		t.Errorf("result = %q, want %q", result, "hello ada")
	}
}

func TestHandlerJSONBody(t *testing.T) {
	reg := NewRegistry()
	RegisterOn(reg, "add", EncodingJSON, func(ctx context.Context, arg struct {
		A, B int
	}) (int, error) {
		return arg.A + arg.B, nil
	})

	r := mountRegistry(reg)
	req := httptest.NewRequest(http.MethodPost, "/api/add", strings.NewReader(`{"A":2,"B":3}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var sum int
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sum != 5 {
		t.Errorf("sum = %d, want 5", sum)
	}
}

func TestHandlerCborResponse(t *testing.T) {
	reg := NewRegistry()
	RegisterOn(reg, "fetch", EncodingGetCbor, func(ctx context.Context, arg struct {
		ID int `json:"id"`
	}) (map[string]any, error) {
		return map[string]any{"id": arg.ID}, nil
	})

	r := mountRegistry(reg)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/fetch?id=9", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "application/cbor" {
		t.Errorf("Content-Type = %q, want application/cbor", got)
	}

	var result map[string]any
	if err := cbor.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("cbor.Unmarshal: %v", err)
	}
}

func TestHandlerUnknownFunction(t *testing.T) {
	r := mountRegistry(NewRegistry())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, "could not find a server function") {
		t.Errorf("body = %q, want registration hint", body)
	}
}

func TestHandlerRootMount(t *testing.T) {
	// Mounting the dispatcher without a path segment leaves no way to
	// carry the function name.
	handler := NewRegistry().Handler(testLogger())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, "root") {
		t.Errorf("body = %q, want root mount explanation", body)
	}
}

func TestHandlerFunctionError(t *testing.T) {
	reg := NewRegistry()
	RegisterOn(reg, "fail", EncodingGetJSON, func(ctx context.Context, arg struct{}) (int, error) {
		return 0, errors.New("backend unavailable")
	})

	r := mountRegistry(reg)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/fail", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", got)
	}
	if body := rr.Body.String(); !strings.Contains(body, "backend unavailable") {
		t.Errorf("body = %q, want the function error", body)
	}
}

func TestHandlerFormPostRedirects(t *testing.T) {
	reg := NewRegistry()
	called := false
	RegisterOn(reg, "increment", EncodingURL, func(ctx context.Context, arg struct {
		Delta int `json:"delta"`
	}) (int, error) {
		called = true
		return arg.Delta, nil
	})

	r := mountRegistry(reg)
	req := httptest.NewRequest(http.MethodPost, "/api/increment", strings.NewReader("delta=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Referer", "/counter")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if !called {
		t.Error("function was not invoked")
	}
	if rr.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/counter" {
		t.Errorf("Location = %q, want /counter", got)
	}
}

func TestHandlerFormPostWithoutReferer(t *testing.T) {
	reg := NewRegistry()
	RegisterOn(reg, "noop", EncodingURL, func(ctx context.Context, arg struct{}) (bool, error) {
		return true, nil
	})

	r := mountRegistry(reg)
	req := httptest.NewRequest(http.MethodPost, "/api/noop", nil)
	req.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/" {
		t.Errorf("Location = %q, want /", got)
	}
}

func TestHandlerHydratedClientGetsEncodedResponse(t *testing.T) {
	// A POST that accepts JSON is a hydrated client, not a plain form
	// submit, so it gets the encoded result instead of a redirect.
	reg := NewRegistry()
	RegisterOn(reg, "increment", EncodingURL, func(ctx context.Context, arg struct {
		Delta int `json:"delta"`
	}) (int, error) {
		return arg.Delta + 41, nil
	})

	r := mountRegistry(reg)
	req := httptest.NewRequest(http.MethodPost, "/api/increment", strings.NewReader("delta=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var result int
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result != 42 {
		t.Errorf("result = %d, want 42", result)
	}
}

func TestLastSegment(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/fn", "fn"},
		{"/api/fn/", "fn"},
		{"/fn", "fn"},
		{"/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lastSegment(tt.path); got != tt.want {
			t.Errorf("lastSegment(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
