package auth

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/logger"
)

// Manager ties credential verification to session issuance.
type Manager struct {
	users    *UserStore
	sessions SessionStore
	cfg      config.AuthConfig
}

// NewManager creates an auth manager.
func NewManager(users *UserStore, sessions SessionStore, cfg config.AuthConfig) *Manager {
	return &Manager{users: users, sessions: sessions, cfg: cfg}
}

// Register creates a new operator account with a bcrypt-hashed password.
func (m *Manager) Register(ctx context.Context, username, password, gmailAddress, gmailAppPassword string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Validationf("username is required")
	}
	if password == "" {
		return nil, domain.Validationf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return m.users.Create(ctx, username, string(hash), gmailAddress, gmailAppPassword)
}

// VerifyCredentials checks username/password and returns the matching
// user. Unknown usernames and wrong passwords are indistinguishable to
// the caller.
func (m *Manager) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := m.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := m.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := NewToken()
	if err != nil {
		return nil, "", err
	}
	if err := m.sessions.Put(ctx, token, user.ID, m.cfg.SessionTTL()); err != nil {
		return nil, "", err
	}

	logger.Info("operator logged in", "username", user.Username)
	return user, token, nil
}

// Logout invalidates a session token.
func (m *Manager) Logout(ctx context.Context, token string) {
	if err := m.sessions.Delete(ctx, token); err != nil {
		logger.Warn("session delete failed", "error", err)
	}
}

// Resolve maps a session token to its user, or ErrUnauthorized.
func (m *Manager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	userID, err := m.sessions.Get(ctx, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// SessionCookie builds the session cookie for a token. An empty token
// with maxAge < 0 clears the cookie.
func (m *Manager) SessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromRequest extracts the session token from the request cookie.
func (m *Manager) TokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
