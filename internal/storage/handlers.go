package storage

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/outreach/internal/pkg/httputil"
	"github.com/ignite/outreach/internal/pkg/logger"
)

// Handlers exposes attachment upload, download, and delete.
type Handlers struct {
	store    Storage
	maxBytes int64
}

// NewHandlers creates storage handlers with a per-file size cap.
func NewHandlers(store Storage, maxSizeMB int) *Handlers {
	return &Handlers{store: store, maxBytes: int64(maxSizeMB) << 20}
}

// HandleUpload serves POST /api/uploads with a multipart "file" field.
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		httputil.BadRequest(w, "invalid multipart upload or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "missing file field")
		return
	}
	defer file.Close()

	stored, err := h.store.Save(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	logger.Info("file uploaded", "key", stored.Key, "size", stored.Size)
	httputil.Created(w, stored)
}

// HandleDownload serves GET /api/uploads/*.
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	rc, err := h.store.Open(r.Context(), key)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		logger.Warn("download interrupted", "key", key, "error", err)
	}
}

// HandleDelete serves DELETE /api/uploads/*.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "*")); err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "deleted"})
}
