package sitekv

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/veldt-dev/veldt/pkg/assets"
	"github.com/veldt-dev/veldt/pkg/middleware"
)

// Handler serves store objects over HTTP. Request paths are resolved
// through the manifest so logical asset names reach the fingerprinted
// object in the store.
type Handler struct {
	store    Store
	manifest *assets.Manifest
	logger   *slog.Logger

	// CacheControl is sent on hits when non-empty. Fingerprinted
	// assets are immutable, so deployments typically set a long
	// max-age here.
	CacheControl string
}

// NewHandler creates a Handler over store. manifest may be nil, in
// which case request paths are used as store keys directly.
func NewHandler(store Store, manifest *assets.Manifest, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, manifest: manifest, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		middleware.RecordAssetRequest(http.StatusMethodNotAllowed)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key, ok := assetKey(r.URL.Path)
	if !ok {
		middleware.RecordAssetRequest(http.StatusBadRequest)
		http.Error(w, "invalid asset path", http.StatusBadRequest)
		return
	}
	if h.manifest != nil {
		key = h.manifest.Resolve(key)
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		h.logger.Warn("asset has no recognized media type", "key", key)
		middleware.RecordAssetRequest(http.StatusUnsupportedMediaType)
		http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
		return
	}

	data, err := h.store.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			middleware.RecordAssetRequest(http.StatusNotFound)
			http.NotFound(w, r)
			return
		}
		h.logger.Error("asset store read failed", "key", key, "error", err)
		middleware.RecordAssetRequest(http.StatusInternalServerError)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	middleware.RecordAssetRequest(http.StatusOK)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if h.CacheControl != "" {
		w.Header().Set("Cache-Control", h.CacheControl)
	}
	if r.Method == http.MethodHead {
		return
	}
	w.Write(data)
}

// assetKey normalizes a request path into a store key. Paths that
// escape the root after cleaning are rejected.
func assetKey(p string) (string, bool) {
	if strings.Contains(p, "..") {
		return "", false
	}
	clean := path.Clean("/" + p)
	key := strings.TrimPrefix(clean, "/")
	if key == "" {
		return "", false
	}
	return key, true
}
