package format

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/httputil"
)

// Handlers exposes the registry and generator over HTTP.
type Handlers struct {
	registry *Registry
}

// NewHandlers creates format handlers.
func NewHandlers(registry *Registry) *Handlers {
	return &Handlers{registry: registry}
}

// HandleGet serves GET /api/company-formats. With ?companyName=X it is a
// single case-insensitive lookup (404 on miss); without it, the full list
// ordered by company name.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	if companyName := r.URL.Query().Get("companyName"); companyName != "" {
		cf, err := h.registry.Lookup(r.Context(), companyName)
		if err != nil {
			httputil.DomainError(w, err)
			return
		}
		httputil.OK(w, cf)
		return
	}

	formats, err := h.registry.List(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"formats": formats,
		"total":   len(formats),
	})
}

type formatRequest struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Domain      string    `json:"domain"`
	EmailFormat string    `json:"email_format"`
}

// HandleCreate serves POST /api/company-formats.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	cf, err := h.registry.Create(r.Context(), req.CompanyName, req.Domain, req.EmailFormat)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.Created(w, cf)
}

// HandleUpdate serves PUT /api/company-formats.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.ID == uuid.Nil {
		httputil.BadRequest(w, "id is required")
		return
	}

	cf, err := h.registry.Update(r.Context(), req.ID, req.CompanyName, req.Domain, req.EmailFormat)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.OK(w, cf)
}

// HandleDelete serves DELETE /api/company-formats?id=N.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		httputil.BadRequest(w, "id is required")
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		httputil.BadRequest(w, "invalid id")
		return
	}

	if err := h.registry.Delete(r.Context(), id); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "deleted"})
}

type candidatesRequest struct {
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Domain      string          `json:"domain"`
	EmailFormat string          `json:"email_format"`
	People      []domain.Person `json:"people"`
}

// HandleCandidates serves POST /api/candidates. With an explicit
// email_format it runs template mode (optionally for a batch of people);
// otherwise it expands the fixed 15-shape set for one person.
func (h *Handlers) HandleCandidates(w http.ResponseWriter, r *http.Request) {
	var req candidatesRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Domain == "" {
		httputil.BadRequest(w, "domain is required")
		return
	}

	if req.EmailFormat != "" {
		people := req.People
		if len(people) == 0 {
			people = []domain.Person{{FirstName: req.FirstName, LastName: req.LastName}}
		}
		candidates, err := ExpandAll(req.EmailFormat, req.Domain, people)
		if err != nil {
			httputil.DomainError(w, err)
			return
		}
		httputil.OK(w, map[string]any{"candidates": candidates})
		return
	}

	candidates, err := GenerateFixed(req.FirstName, req.LastName, req.Domain)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"candidates": candidates})
}
