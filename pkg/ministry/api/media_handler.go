package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// MediaHandler serves uploaded files read-only
type MediaHandler struct {
	service ministry.Service
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(service ministry.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

// Routes returns the routes for uploaded files
func (h *MediaHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.ServeMedia)
	r.Head("/*", h.ServeMedia)
	return r
}

// ServeMedia streams the file stored under the wildcard key
func (h *MediaHandler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	rc, meta, err := h.service.OpenMedia(r.Context(), key)
	if err != nil {
		writeError(w, r, "File not found", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	if meta.ETag != "" {
		w.Header().Set("ETag", `"`+meta.ETag+`"`)
	}
	if !meta.UpdatedAt.IsZero() {
		w.Header().Set("Last-Modified", meta.UpdatedAt.UTC().Format(http.TimeFormat))
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Failed to stream media", "key", key, "error", err)
	}
}
