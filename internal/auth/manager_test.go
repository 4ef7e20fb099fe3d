package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
)

func newTestManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.AuthConfig{CookieName: "outreach_session", CookieMaxAge: 3600}
	return NewManager(NewUserStore(db), NewMemorySessions(ctx), cfg), mock
}

func userRows(id uuid.UUID, username, hash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "gmail_address", "gmail_app_password", "created_at"}).
		AddRow(id, username, hash, "op@gmail.com", "app-password", time.Now())
}

func TestRegisterValidation(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Register(context.Background(), "", "secret", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = m.Register(context.Background(), "operator", "", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	m, mock := newTestManager(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("operator").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := m.Register(context.Background(), "operator", "secret", "", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLoginRoundTrip(t *testing.T) {
	m, mock := newTestManager(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("operator").
		WillReturnRows(userRows(userID, "operator", string(hash)))

	user, token, err := m.Login(context.Background(), "operator", "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NotEmpty(t, token)

	// The issued token resolves back to the same user.
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(userID).
		WillReturnRows(userRows(userID, "operator", string(hash)))

	resolved, err := m.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "operator", resolved.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	m, mock := newTestManager(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("operator").
		WillReturnRows(userRows(uuid.New(), "operator", string(hash)))

	_, _, err = m.Login(context.Background(), "operator", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	m, mock := newTestManager(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "gmail_address", "gmail_app_password", "created_at"}))

	_, _, err := m.Login(context.Background(), "ghost", "secret")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	m, mock := newTestManager(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("operator").
		WillReturnRows(userRows(userID, "operator", string(hash)))

	_, token, err := m.Login(context.Background(), "operator", "secret")
	require.NoError(t, err)

	m.Logout(context.Background(), token)

	_, err = m.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSessionCookie(t *testing.T) {
	m, _ := newTestManager(t)

	c := m.SessionCookie("tok", 3600)
	assert.Equal(t, "outreach_session", c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)

	cleared := m.SessionCookie("", -1)
	assert.Equal(t, -1, cleared.MaxAge)
}
