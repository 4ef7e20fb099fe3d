package auth

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignite/outreach/internal/pkg/httputil"
)

// Handlers exposes registration, login, logout, and profile endpoints.
type Handlers struct {
	manager *Manager
	// onLogout lets other components (the assembler) drop per-session
	// state when a session ends.
	onLogout func(token string)
}

// NewHandlers creates auth handlers. onLogout may be nil.
func NewHandlers(manager *Manager, onLogout func(token string)) *Handlers {
	return &Handlers{manager: manager, onLogout: onLogout}
}

type registerRequest struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	GmailAddress     string `json:"gmail_address"`
	GmailAppPassword string `json:"gmail_app_password"`
}

// HandleRegister serves POST /auth/register.
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	user, err := h.manager.Register(r.Context(), req.Username, req.Password, req.GmailAddress, req.GmailAppPassword)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}
	httputil.Created(w, map[string]any{"id": user.ID, "username": user.Username})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin serves POST /auth/login. On success the session token is
// set as an HttpOnly cookie.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	user, token, err := h.manager.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	http.SetCookie(w, h.manager.SessionCookie(token, h.manager.cfg.CookieMaxAge))
	httputil.OK(w, map[string]any{"id": user.ID, "username": user.Username})
}

// HandleLogout serves POST /auth/logout.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.manager.TokenFromRequest(r); ok {
		h.manager.Logout(r.Context(), token)
		if h.onLogout != nil {
			h.onLogout(token)
		}
	}
	http.SetCookie(w, h.manager.SessionCookie("", -1))
	httputil.OK(w, map[string]string{"status": "logged_out"})
}

// HandleUserInfo serves GET /auth/user.
func (h *Handlers) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	token, ok := h.manager.TokenFromRequest(r)
	if !ok {
		httputil.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	user, err := h.manager.Resolve(r.Context(), token)
	if err != nil {
		httputil.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	httputil.OK(w, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// HandleGetProfile serves GET /api/profile.
func (h *Handlers) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	httputil.OK(w, map[string]any{
		"username":             user.Username,
		"gmail_address":        user.GmailAddress,
		"has_app_password":     user.GmailAppPassword != "",
		"has_mail_credentials": user.HasMailCredentials(),
	})
}

type profileUpdateRequest struct {
	GmailAddress     string `json:"gmail_address"`
	GmailAppPassword string `json:"gmail_app_password"`
	CurrentPassword  string `json:"current_password"`
	NewPassword      string `json:"new_password"`
}

// HandleUpdateProfile serves PUT /api/profile. Gmail credentials and the
// account password can each be updated independently; a password change
// requires the current password.
func (h *Handlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	var req profileUpdateRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	if req.GmailAddress != "" || req.GmailAppPassword != "" {
		if err := h.manager.users.UpdateMailCredentials(r.Context(), user.ID, req.GmailAddress, req.GmailAppPassword); err != nil {
			httputil.InternalError(w, err)
			return
		}
	}

	if req.CurrentPassword != "" && req.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
			httputil.BadRequest(w, "incorrect current password")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
		if err := h.manager.users.UpdatePasswordHash(r.Context(), user.ID, string(hash)); err != nil {
			httputil.InternalError(w, err)
			return
		}
	}

	httputil.OK(w, map[string]string{"status": "updated"})
}
