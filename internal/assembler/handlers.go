package assembler

import (
	"net/http"

	"github.com/ignite/outreach/internal/auth"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/format"
	"github.com/ignite/outreach/internal/pkg/httputil"
)

// Handlers exposes the assembly workflow over HTTP. Each endpoint
// operates on the flow bound to the caller's session.
type Handlers struct {
	manager  *Manager
	registry *format.Registry
}

// NewHandlers creates assembler handlers backed by the format registry.
func NewHandlers(manager *Manager, registry *format.Registry) *Handlers {
	return &Handlers{manager: manager, registry: registry}
}

func (h *Handlers) token(r *http.Request) string {
	token, _ := auth.SessionToken(r.Context())
	return token
}

func (h *Handlers) respond(w http.ResponseWriter, token string) {
	var snap Snapshot
	_ = h.manager.WithFlow(token, func(f *Flow) error {
		snap = f.Snapshot()
		return nil
	})
	httputil.OK(w, snap)
}

// HandleSnapshot serves GET /api/assembler.
func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.token(r))
}

type confirmCompanyRequest struct {
	CompanyName string `json:"company_name"`
}

// HandleConfirmCompany serves POST /api/assembler/company. The company
// name is resolved against the format registry; a miss returns 404 so
// the operator can create the format first.
func (h *Handlers) HandleConfirmCompany(w http.ResponseWriter, r *http.Request) {
	var req confirmCompanyRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	cf, err := h.registry.Lookup(r.Context(), req.CompanyName)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	token := h.token(r)
	if err := h.manager.WithFlow(token, func(f *Flow) error {
		return f.ConfirmCompany(cf)
	}); err != nil {
		httputil.DomainError(w, err)
		return
	}
	h.respond(w, token)
}

type addPersonRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// HandleAddPerson serves POST /api/assembler/people.
func (h *Handlers) HandleAddPerson(w http.ResponseWriter, r *http.Request) {
	var req addPersonRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	token := h.token(r)
	if err := h.manager.WithFlow(token, func(f *Flow) error {
		return f.AddPerson(domain.Person{FirstName: req.FirstName, LastName: req.LastName})
	}); err != nil {
		httputil.DomainError(w, err)
		return
	}
	h.respond(w, token)
}

// HandleGenerate serves POST /api/assembler/generate.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	token := h.token(r)
	if err := h.manager.WithFlow(token, func(f *Flow) error {
		_, err := f.Generate()
		return err
	}); err != nil {
		httputil.DomainError(w, err)
		return
	}
	h.respond(w, token)
}

type toggleRequest struct {
	Index *int `json:"index"`
	All   bool `json:"all"`
}

// HandleToggle serves POST /api/assembler/select. With "all" set the
// whole candidate set is toggled; otherwise "index" toggles one entry.
func (h *Handlers) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	token := h.token(r)
	err := h.manager.WithFlow(token, func(f *Flow) error {
		if req.All {
			f.ToggleAll()
			return nil
		}
		if req.Index == nil {
			return domain.Validationf("index or all is required")
		}
		return f.Toggle(*req.Index)
	})
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	h.respond(w, token)
}

// HandleCommit serves POST /api/assembler/commit: the selected
// candidates are appended to the accumulated recipient list and the
// working state resets for the next company.
func (h *Handlers) HandleCommit(w http.ResponseWriter, r *http.Request) {
	token := h.token(r)
	var recipients string
	_ = h.manager.WithFlow(token, func(f *Flow) error {
		recipients = f.Commit()
		return nil
	})
	httputil.OK(w, map[string]string{"recipients": recipients})
}

// HandleCancel serves POST /api/assembler/cancel.
func (h *Handlers) HandleCancel(w http.ResponseWriter, r *http.Request) {
	token := h.token(r)
	_ = h.manager.WithFlow(token, func(f *Flow) error {
		f.Cancel()
		return nil
	})
	h.respond(w, token)
}
