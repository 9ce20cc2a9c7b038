package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestLogger logs one line per request at debug level, with
// status, duration, and bytes written. Errors (5xx) log at error
// level so they surface without raising the global level.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &countingWriter{statusWriter: statusWriter{ResponseWriter: w}}

			next.ServeHTTP(sw, r)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", sw.bytes,
				"duration", time.Since(start),
			}
			if status >= 500 {
				logger.Error("request", attrs...)
			} else {
				logger.Debug("request", attrs...)
			}
		})
	}
}

type countingWriter struct {
	statusWriter
	bytes int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.statusWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}
