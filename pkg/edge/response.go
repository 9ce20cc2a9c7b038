package edge

import (
	"net/http"
	"sync"
)

// ResponseOptions collects status and header decisions made during
// rendering. Components and server functions run before the response
// is committed, so they record overrides here instead of writing to
// the ResponseWriter directly. The zero status means "no override";
// handlers fall back to 200.
type ResponseOptions struct {
	mu     sync.Mutex
	status int
	header http.Header
}

// NewResponseOptions creates an empty ResponseOptions.
func NewResponseOptions() *ResponseOptions {
	return &ResponseOptions{
		header: make(http.Header),
	}
}

// SetStatus overrides the response status code.
func (o *ResponseOptions) SetStatus(code int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = code
}

// Status returns the overridden status, or fallback when none was set.
func (o *ResponseOptions) Status(fallback int) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == 0 {
		return fallback
	}
	return o.status
}

// InsertHeader sets a header, replacing any previous values for the
// same key.
func (o *ResponseOptions) InsertHeader(key, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.header.Set(key, value)
}

// AppendHeader adds a header value without removing existing values.
func (o *ResponseOptions) AppendHeader(key, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.header.Add(key, value)
}

// Header returns the first value recorded for key.
func (o *ResponseOptions) Header(key string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.header.Get(key)
}

// Apply copies recorded headers onto w and writes the status code.
// fallback is used when no status override was recorded.
func (o *ResponseOptions) Apply(w http.ResponseWriter, fallback int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	dst := w.Header()
	for key, values := range o.header {
		dst[key] = append(dst[key][:0:0], values...)
	}
	status := o.status
	if status == 0 {
		status = fallback
	}
	w.WriteHeader(status)
}

// Redirect records a 302 redirect to path on the request's response
// options. It takes effect when the handler applies the options, so a
// component can call it mid-render.
func Redirect(rc *RequestContext, path string) {
	rc.Response.SetStatus(http.StatusFound)
	rc.Response.InsertHeader("Location", path)
}
