package edge

import (
	"net/http"

	"github.com/veldt-dev/veldt/pkg/middleware"
	"github.com/veldt-dev/veldt/pkg/render"
)

// pageHandler builds the SSR handler for one route. Async mode
// buffers the whole document so response overrides recorded during
// rendering, including a mid-render redirect, still reach the status
// line. Streaming modes commit headers on the first write.
func (a *App) pageHandler(listing RouteListing, page Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts, err := NewRequestParts(r)
		if err != nil {
			a.logger.Error("failed to read request", "path", r.URL.Path, "error", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		rc := NewRequestContext(r.Context(), parts, a.resolver)
		data := page(rc)
		if data == nil {
			a.logger.Error("page returned no data", "path", r.URL.Path)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if data.Resolver == nil {
			data.Resolver = a.resolver
		}
		if data.OutputName == "" {
			data.OutputName = a.opts.OutputName
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if listing.Mode == render.ModeAsync {
			a.serveBuffered(w, rc, data)
			return
		}
		a.serveStreamed(w, rc, data, listing.Mode)
	}
}

// serveBuffered renders the complete document into memory, then
// writes it with any recorded overrides applied.
func (a *App) serveBuffered(w http.ResponseWriter, rc *RequestContext, data *render.PageData) {
	var buf flushDiscard
	sr := render.NewStreamRenderer(&buf, render.ModeAsync, render.RendererConfig{})
	if err := sr.RenderPage(rc.Context(), *data); err != nil {
		a.logger.Error("render failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rc.Response.Apply(w, http.StatusOK)
	w.Write(buf.Bytes())
}

// serveStreamed renders directly to the connection. Headers and the
// status line go out with the first chunk; overrides recorded after
// that point have nowhere to land.
func (a *App) serveStreamed(w http.ResponseWriter, rc *RequestContext, data *render.PageData, mode render.Mode) {
	ow := &optionsWriter{w: w, opts: rc.Response}
	sr := render.NewStreamRenderer(ow, mode, render.RendererConfig{})
	sr.FragmentObserver = middleware.RecordStreamFragment
	if err := sr.RenderPage(rc.Context(), *data); err != nil {
		if !ow.wrote {
			a.logger.Error("render failed", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		// Mid-stream failure. The shell is already on the wire, so all
		// we can do is log and cut the stream.
		a.logger.Error("render failed mid-stream", "error", err)
	}
}

// optionsWriter applies response overrides just before the first body
// byte goes out.
type optionsWriter struct {
	w     http.ResponseWriter
	opts  *ResponseOptions
	wrote bool
}

func (ow *optionsWriter) Write(p []byte) (int, error) {
	if !ow.wrote {
		ow.wrote = true
		ow.opts.Apply(ow.w, http.StatusOK)
	}
	return ow.w.Write(p)
}

func (ow *optionsWriter) Flush() {
	if f, ok := ow.w.(http.Flusher); ok {
		f.Flush()
	}
}

// flushDiscard is a byte buffer that satisfies http.Flusher so the
// stream renderer can flush without effect while buffering.
type flushDiscard struct {
	buf []byte
}

func (b *flushDiscard) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *flushDiscard) Flush() {}

func (b *flushDiscard) Bytes() []byte { return b.buf }
