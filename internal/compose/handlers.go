package compose

import (
	"net/http"

	"github.com/ignite/outreach/internal/pkg/httputil"
)

// Handlers exposes draft generation over HTTP.
type Handlers struct {
	client *Client
}

// NewHandlers creates compose handlers. client may be nil when the
// feature is disabled.
func NewHandlers(client *Client) *Handlers {
	return &Handlers{client: client}
}

// HandleDraft serves POST /api/compose/draft.
func (h *Handlers) HandleDraft(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "draft generation is not configured")
		return
	}

	var req DraftRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	draft, err := h.client.GenerateDraft(r.Context(), req)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.OK(w, draft)
}
