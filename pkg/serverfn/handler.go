package serverfn

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veldt-dev/veldt/pkg/edge"
	"github.com/veldt-dev/veldt/pkg/middleware"
)

// Handler returns the HTTP handler that dispatches server function
// calls. Mount it under a wildcard like /api/{name}; the function
// name is taken from the chi route parameter, falling back to the
// last path segment.
func (r *Registry) Handler(logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		if name == "" {
			name = lastSegment(req.URL.Path)
		}
		if name == "" {
			// Mounting the dispatcher at the root leaves no path
			// segment to carry the function name.
			logger.Error("server function handler mounted at root", "path", req.URL.Path)
			http.Error(w, "server functions cannot be mounted at the root path", http.StatusInternalServerError)
			return
		}

		reg, ok := r.lookup(name)
		if !ok {
			logger.Warn("unknown server function", "name", name)
			msg := fmt.Sprintf(
				"could not find a server function at %q: check that the name is correct and the function is registered",
				req.URL.Path)
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		parts, err := edge.NewRequestParts(req)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		rc := edge.NewRequestContext(req.Context(), parts, nil)

		payload := extractPayload(reg.encoding, parts)
		start := time.Now()
		result, err := reg.call(rc.Context(), payload)
		middleware.RecordServerFn(name, err, time.Since(start))
		if err != nil {
			logger.Error("server function failed", "name", name, "error", err)
			rc.Response.InsertHeader("Content-Type", "text/plain; charset=utf-8")
			rc.Response.Apply(w, http.StatusInternalServerError)
			fmt.Fprintln(w, err.Error())
			return
		}

		// A plain form post cannot consume an encoded response. Send
		// the browser back to the page the form came from instead.
		if formRedirect(parts) {
			edge.Redirect(rc, parts.Referer())
			rc.Response.Apply(w, http.StatusFound)
			return
		}

		w.Header().Set("Content-Type", reg.encoding.contentType())
		rc.Response.Apply(w, http.StatusOK)
		w.Write(result)
	}
}

// extractPayload pulls the raw argument material from the request per
// the encoding: the query string for GET encodings, the body
// otherwise.
func extractPayload(enc Encoding, parts *edge.RequestParts) Payload {
	switch enc {
	case EncodingGetJSON, EncodingGetCbor:
		return Payload{
			Data:        []byte(parts.URL.RawQuery),
			ContentType: parts.Header.Get("Content-Type"),
		}
	default:
		return Payload{
			Data:        parts.Body,
			ContentType: parts.Header.Get("Content-Type"),
		}
	}
}

// formRedirect reports whether the request came from a plain HTML
// form submit. Hydrated clients advertise the encoded types they can
// handle in Accept; browsers submitting forms do not.
func formRedirect(parts *edge.RequestParts) bool {
	if parts.Method != http.MethodPost {
		return false
	}
	return !parts.Accepts("application/json") &&
		!parts.Accepts("application/cbor") &&
		!parts.Accepts("application/x-www-form-urlencoded")
}

func lastSegment(path string) string {
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
