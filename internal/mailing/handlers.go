package mailing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/outreach/internal/auth"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/httputil"
)

// Handlers exposes the send pipeline, sent-mail history, and template
// CRUD over HTTP. All routes sit behind RequireAuth.
type Handlers struct {
	pipeline *Pipeline
	store    *Store
	renderer *Renderer
}

// NewHandlers creates mailing handlers.
func NewHandlers(pipeline *Pipeline, store *Store, renderer *Renderer) *Handlers {
	return &Handlers{pipeline: pipeline, store: store, renderer: renderer}
}

// HandleSend serves POST /api/emails/send.
func (h *Handlers) HandleSend(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	var req SendRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	result, err := h.pipeline.Send(r.Context(), user, req)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.OK(w, result)
}

// HandleListSent serves GET /api/emails.
func (h *Handlers) HandleListSent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	emails, err := h.store.ListSent(r.Context(), user.ID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if emails == nil {
		emails = []*domain.SentEmail{}
	}
	httputil.OK(w, emails)
}

// HandleDeleteSent serves DELETE /api/emails/{id}.
func (h *Handlers) HandleDeleteSent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "invalid email id")
		return
	}

	if err := h.store.DeleteSent(r.Context(), user.ID, id); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "deleted"})
}

type templateRequest struct {
	Title      string `json:"title"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
}

// HandleListTemplates serves GET /api/templates: the caller's own plus
// all public templates.
func (h *Handlers) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	templates, err := h.store.ListTemplates(r.Context(), user.ID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if templates == nil {
		templates = []*domain.EmailTemplate{}
	}
	httputil.OK(w, templates)
}

// HandleCreateTemplate serves POST /api/templates.
func (h *Handlers) HandleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	var req templateRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	t := &domain.EmailTemplate{
		UserID:     user.ID,
		Title:      req.Title,
		Subject:    req.Subject,
		Content:    req.Content,
		Visibility: req.Visibility,
	}
	if err := h.store.CreateTemplate(r.Context(), t); err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.Created(w, t)
}

// HandleUpdateTemplate serves PUT /api/templates/{id}. Only the owner
// can update; public templates from other operators are read-only.
func (h *Handlers) HandleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "invalid template id")
		return
	}

	var req templateRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	t := &domain.EmailTemplate{
		ID:         id,
		UserID:     user.ID,
		Title:      req.Title,
		Subject:    req.Subject,
		Content:    req.Content,
		Visibility: req.Visibility,
	}
	if t.Visibility == "" {
		t.Visibility = domain.VisibilityPrivate
	}
	if err := h.store.UpdateTemplate(r.Context(), t); err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.OK(w, t)
}

// HandleDeleteTemplate serves DELETE /api/templates/{id}.
func (h *Handlers) HandleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "invalid template id")
		return
	}

	if err := h.store.DeleteTemplate(r.Context(), user.ID, id); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "deleted"})
}

type previewRequest struct {
	Bindings map[string]any `json:"bindings"`
}

// HandlePreviewTemplate serves POST /api/templates/{id}/preview:
// renders the template's Liquid placeholders against caller-supplied
// bindings without sending anything.
func (h *Handlers) HandlePreviewTemplate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "invalid template id")
		return
	}

	var req previewRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	t, err := h.store.GetTemplate(r.Context(), user.ID, id)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	subject, content, err := h.renderer.Preview(t, req.Bindings)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"subject": subject, "content": content})
}
