// Package auth implements operator accounts and sessions: bcrypt
// credential verification, opaque session tokens (Redis-backed when
// configured), and the middleware that resolves the current user once per
// request and passes it through the request context.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/outreach/internal/domain"
)

// UserStore provides database operations for operator accounts.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store over db.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new operator. A duplicate username is a conflict.
func (s *UserStore) Create(ctx context.Context, username, passwordHash, gmailAddress, gmailAppPassword string) (*domain.User, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.Conflictf("username %q already taken", username)
	}

	u := &domain.User{
		ID:               uuid.New(),
		Username:         username,
		PasswordHash:     passwordHash,
		GmailAddress:     strings.TrimSpace(gmailAddress),
		GmailAppPassword: gmailAppPassword,
		CreatedAt:        time.Now(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, gmail_address, gmail_app_password, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.PasswordHash, u.GmailAddress, u.GmailAppPassword, u.CreatedAt)
	if err != nil {
		// Two concurrent registrations can both pass the EXISTS check;
		// the unique constraint on username decides the winner.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, domain.Conflictf("username %q already taken", username)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetByUsername fetches an operator by exact username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, gmail_address, gmail_app_password, created_at
		FROM users WHERE username = $1`, username))
}

// GetByID fetches an operator by id.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, gmail_address, gmail_app_password, created_at
		FROM users WHERE id = $1`, id))
}

func (s *UserStore) scanOne(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var gmailAddress, gmailAppPassword sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &gmailAddress, &gmailAppPassword, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("user")
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.GmailAddress = gmailAddress.String
	u.GmailAppPassword = gmailAppPassword.String
	return u, nil
}

// UpdateMailCredentials sets the operator's Gmail address and app password.
func (s *UserStore) UpdateMailCredentials(ctx context.Context, id uuid.UUID, gmailAddress, gmailAppPassword string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET gmail_address = $2, gmail_app_password = $3 WHERE id = $1`,
		id, strings.TrimSpace(gmailAddress), gmailAppPassword)
	if err != nil {
		return fmt.Errorf("update mail credentials: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces the operator's password hash.
func (s *UserStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
