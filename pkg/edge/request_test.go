package edge

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRequestParts(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/fn?x=1", strings.NewReader("payload"))
	req.Header.Set("Content-Type", "text/plain")

	parts, err := NewRequestParts(req)
	if err != nil {
		t.Fatalf("NewRequestParts: %v", err)
	}

	if parts.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", parts.Method)
	}
	if string(parts.Body) != "payload" {
		t.Errorf("Body = %q, want payload", parts.Body)
	}
	if got := parts.Query().Get("x"); got != "1" {
		t.Errorf("query x = %q, want 1", got)
	}

	// The original body must remain readable for downstream handlers.
	rest, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("re-read body: %v", err)
	}
	if string(rest) != "payload" {
		t.Errorf("re-read body = %q, want payload", rest)
	}
}

func TestRequestPartsReferer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/fn", nil)
	parts, _ := NewRequestParts(req)
	if got := parts.Referer(); got != "/" {
		t.Errorf("Referer with no header = %q, want /", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/fn", nil)
	req.Header.Set("Referer", "/blog/post-1")
	parts, _ = NewRequestParts(req)
	if got := parts.Referer(); got != "/blog/post-1" {
		t.Errorf("Referer = %q, want /blog/post-1", got)
	}
}

func TestRequestPartsAccepts(t *testing.T) {
	tests := []struct {
		accept      string
		contentType string
		want        bool
	}{
		{"application/json", "application/json", true},
		{"text/html,application/json", "application/json", true},
		{"application/json; q=0.9", "application/json", true},
		{"text/html, application/xhtml+xml, */*;q=0.8", "text/html", true},
		{"text/html", "application/json", false},
		{"", "application/json", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.accept != "" {
			req.Header.Set("Accept", tt.accept)
		}
		parts, _ := NewRequestParts(req)
		if got := parts.Accepts(tt.contentType); got != tt.want {
			t.Errorf("Accepts(%q) with Accept=%q = %v, want %v", tt.contentType, tt.accept, got, tt.want)
		}
	}
}
