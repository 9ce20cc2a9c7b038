package edge

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxBufferedBody caps how much request body is buffered into
// RequestParts. Server function payloads are small; anything larger is
// a client error.
const maxBufferedBody = 10 << 20

// RequestParts is a buffered snapshot of an incoming request. The
// body is read eagerly so components and server functions can inspect
// it any number of times without coordinating over a single stream.
type RequestParts struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte

	// RemoteAddr is the peer address as reported by the server.
	RemoteAddr string
}

// NewRequestParts buffers the request into a RequestParts. The
// original body reader is consumed and replaced so downstream
// handlers can still read it.
func NewRequestParts(r *http.Request) (*RequestParts, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxBufferedBody))
		if err != nil {
			return nil, err
		}
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	return &RequestParts{
		Method:     r.Method,
		URL:        r.URL,
		Header:     r.Header.Clone(),
		Body:       body,
		RemoteAddr: r.RemoteAddr,
	}, nil
}

// Query returns the parsed query parameters.
func (p *RequestParts) Query() url.Values {
	if p.URL == nil {
		return url.Values{}
	}
	return p.URL.Query()
}

// Referer returns the Referer header, or "/" when absent. Form posts
// redirect back here after the server function runs.
func (p *RequestParts) Referer() string {
	if ref := p.Header.Get("Referer"); ref != "" {
		return ref
	}
	return "/"
}

// Accepts reports whether the Accept header mentions the given
// content type.
func (p *RequestParts) Accepts(contentType string) bool {
	for _, part := range strings.Split(p.Header.Get("Accept"), ",") {
		if mediaType, _, ok := strings.Cut(part, ";"); ok {
			part = mediaType
		}
		if strings.TrimSpace(part) == contentType {
			return true
		}
	}
	return false
}
