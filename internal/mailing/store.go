package mailing

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach/internal/domain"
)

// Store provides database operations for sent mail and templates.
type Store struct {
	db *sql.DB
}

// NewStore creates a new mailing store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordSent persists one send attempt. A row is written for every
// attempted recipient; Delivered records whether the transport accepted
// the message.
func (s *Store) RecordSent(ctx context.Context, e *domain.SentEmail) error {
	e.ID = uuid.New()
	if e.SentAt.IsZero() {
		e.SentAt = time.Now()
	}

	query := `INSERT INTO sent_emails (id, user_id, recipient, subject, content, sent_at, thread_id, follow_up, delivered)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query, e.ID, e.UserID, e.Recipient, e.Subject,
		e.Content, e.SentAt, e.ThreadID, e.FollowUp, e.Delivered)
	return err
}

// ListSent retrieves the caller's sent-mail history, newest first.
func (s *Store) ListSent(ctx context.Context, userID uuid.UUID) ([]*domain.SentEmail, error) {
	query := `SELECT id, user_id, recipient, subject, content, sent_at, thread_id, follow_up, delivered
		FROM sent_emails WHERE user_id = $1 ORDER BY sent_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []*domain.SentEmail
	for rows.Next() {
		e := &domain.SentEmail{}
		var threadID sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Recipient, &e.Subject, &e.Content,
			&e.SentAt, &threadID, &e.FollowUp, &e.Delivered); err != nil {
			return nil, err
		}
		e.ThreadID = threadID.String
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// GetSent retrieves one history entry, scoped to its owner.
func (s *Store) GetSent(ctx context.Context, userID, id uuid.UUID) (*domain.SentEmail, error) {
	query := `SELECT id, user_id, recipient, subject, content, sent_at, thread_id, follow_up, delivered
		FROM sent_emails WHERE id = $1 AND user_id = $2`

	e := &domain.SentEmail{}
	var threadID sql.NullString
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&e.ID, &e.UserID, &e.Recipient, &e.Subject, &e.Content,
		&e.SentAt, &threadID, &e.FollowUp, &e.Delivered)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("sent email %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	e.ThreadID = threadID.String
	return e, nil
}

// DeleteSent removes one history entry. Deleting an entry that does not
// exist (or belongs to another operator) is a no-op.
func (s *Store) DeleteSent(ctx context.Context, userID, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sent_emails WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

// CreateTemplate stores a reusable template owned by the caller.
func (s *Store) CreateTemplate(ctx context.Context, t *domain.EmailTemplate) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return domain.Validationf("template title is required")
	}
	if t.Subject == "" && t.Content == "" {
		return domain.Validationf("template subject or content is required")
	}
	if t.Visibility == "" {
		t.Visibility = domain.VisibilityPrivate
	}
	if t.Visibility != domain.VisibilityPrivate && t.Visibility != domain.VisibilityPublic {
		return domain.Validationf("visibility must be %q or %q", domain.VisibilityPrivate, domain.VisibilityPublic)
	}

	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt

	query := `INSERT INTO email_templates (id, user_id, title, subject, content, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query, t.ID, t.UserID, t.Title, t.Subject,
		t.Content, t.Visibility, t.CreatedAt, t.UpdatedAt)
	return err
}

// ListTemplates retrieves the caller's own templates plus every public
// template, own-first then by title.
func (s *Store) ListTemplates(ctx context.Context, userID uuid.UUID) ([]*domain.EmailTemplate, error) {
	query := `SELECT id, user_id, title, subject, content, visibility, created_at, updated_at
		FROM email_templates WHERE user_id = $1 OR visibility = 'public'
		ORDER BY (user_id = $1) DESC, title ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.EmailTemplate
	for rows.Next() {
		t := &domain.EmailTemplate{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Subject, &t.Content,
			&t.Visibility, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// GetTemplate retrieves one template the caller can read: their own or
// a public one.
func (s *Store) GetTemplate(ctx context.Context, userID, id uuid.UUID) (*domain.EmailTemplate, error) {
	query := `SELECT id, user_id, title, subject, content, visibility, created_at, updated_at
		FROM email_templates WHERE id = $1 AND (user_id = $2 OR visibility = 'public')`

	t := &domain.EmailTemplate{}
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Subject, &t.Content,
		&t.Visibility, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("template %s not found", id)
	}
	return t, err
}

// UpdateTemplate rewrites a template the caller owns.
func (s *Store) UpdateTemplate(ctx context.Context, t *domain.EmailTemplate) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return domain.Validationf("template title is required")
	}
	if t.Visibility != domain.VisibilityPrivate && t.Visibility != domain.VisibilityPublic {
		return domain.Validationf("visibility must be %q or %q", domain.VisibilityPrivate, domain.VisibilityPublic)
	}

	query := `UPDATE email_templates SET title = $1, subject = $2, content = $3, visibility = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at`

	err := s.db.QueryRowContext(ctx, query, t.Title, t.Subject, t.Content,
		t.Visibility, t.ID, t.UserID).Scan(&t.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.NotFoundf("template %s not found", t.ID)
	}
	return err
}

// DeleteTemplate removes a template the caller owns. Missing templates
// are a no-op.
func (s *Store) DeleteTemplate(ctx context.Context, userID, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM email_templates WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}
