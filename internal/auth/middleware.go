package auth

import (
	"context"
	"net/http"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/httputil"
)

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// CurrentUser returns the authenticated user from the request context.
// Handlers behind RequireAuth can rely on ok being true.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}

// SessionToken returns the session token from the request context.
func SessionToken(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok
}

// RequireAuth resolves the session once per request and injects the user
// and token into the context. Unauthenticated requests get a 401; there
// is no ambient/global session state anywhere else in the service.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.TokenFromRequest(r)
		if !ok {
			httputil.Unauthorized(w)
			return
		}

		user, err := m.Resolve(r.Context(), token)
		if err != nil {
			httputil.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
