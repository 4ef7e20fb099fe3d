package gmailapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/outreach/internal/pkg/httputil"
)

// Handlers exposes thread lookup over HTTP.
type Handlers struct {
	client *Client
}

// NewHandlers creates gmailapi handlers. client may be nil when OAuth
// credentials are not configured; lookups then return 503.
func NewHandlers(client *Client) *Handlers {
	return &Handlers{client: client}
}

// HandleGetThread serves GET /api/threads/{id}.
func (h *Handlers) HandleGetThread(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "gmail api is not configured")
		return
	}

	thread, err := h.client.GetThread(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.OK(w, thread)
}
