// Package format implements the company email-format registry and the
// candidate address generator.
package format

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

// uniqueViolation reports whether err is a Postgres unique-constraint
// violation (code 23505).
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Registry provides database operations for company email formats.
// Lookups are case-insensitive on company name; the store enforces
// uniqueness at write time so a lookup returns at most one row.
type Registry struct {
	db *sql.DB
}

// NewRegistry creates a registry over db.
func NewRegistry(db *sql.DB) *Registry {
	return &Registry{db: db}
}

// Lookup returns the format for a company name, compared case-insensitively.
func (r *Registry) Lookup(ctx context.Context, companyName string) (*domain.CompanyFormat, error) {
	query := `SELECT id, company_name, domain, email_format, created_at, updated_at
		FROM company_email_formats WHERE LOWER(company_name) = LOWER($1)`

	cf := &domain.CompanyFormat{}
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(companyName)).Scan(
		&cf.ID, &cf.CompanyName, &cf.Domain, &cf.EmailFormat, &cf.CreatedAt, &cf.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("no format for company %q", companyName)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup company format: %w", err)
	}
	return cf, nil
}

// List returns all formats ordered by company name ascending.
func (r *Registry) List(ctx context.Context) ([]*domain.CompanyFormat, error) {
	query := `SELECT id, company_name, domain, email_format, created_at, updated_at
		FROM company_email_formats ORDER BY company_name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list company formats: %w", err)
	}
	defer rows.Close()

	var formats []*domain.CompanyFormat
	for rows.Next() {
		cf := &domain.CompanyFormat{}
		if err := rows.Scan(&cf.ID, &cf.CompanyName, &cf.Domain, &cf.EmailFormat,
			&cf.CreatedAt, &cf.UpdatedAt); err != nil {
			return nil, err
		}
		formats = append(formats, cf)
	}
	return formats, rows.Err()
}

// Create validates and inserts a new format. A case-insensitive duplicate
// company name is a conflict.
func (r *Registry) Create(ctx context.Context, companyName, domainName, emailFormat string) (*domain.CompanyFormat, error) {
	if err := validateFields(companyName, domainName, emailFormat); err != nil {
		return nil, err
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM company_email_formats WHERE LOWER(company_name) = LOWER($1))`,
		companyName).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check duplicate company: %w", err)
	}
	if exists {
		return nil, domain.Conflictf("format for company %q already exists", companyName)
	}

	cf := &domain.CompanyFormat{
		ID:          uuid.New(),
		CompanyName: strings.TrimSpace(companyName),
		Domain:      strings.TrimSpace(domainName),
		EmailFormat: strings.TrimSpace(emailFormat),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO company_email_formats (id, company_name, domain, email_format, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		cf.ID, cf.CompanyName, cf.Domain, cf.EmailFormat, cf.CreatedAt, cf.UpdatedAt)
	if err != nil {
		// The EXISTS check races with concurrent creates; the unique
		// index on LOWER(company_name) is the backstop.
		if uniqueViolation(err) {
			return nil, domain.Conflictf("format for company %q already exists", companyName)
		}
		return nil, fmt.Errorf("insert company format: %w", err)
	}
	return cf, nil
}

// Update rewrites an existing format in place.
func (r *Registry) Update(ctx context.Context, id uuid.UUID, companyName, domainName, emailFormat string) (*domain.CompanyFormat, error) {
	if err := validateFields(companyName, domainName, emailFormat); err != nil {
		return nil, err
	}

	query := `UPDATE company_email_formats
		SET company_name = $2, domain = $3, email_format = $4, updated_at = $5
		WHERE id = $1
		RETURNING id, company_name, domain, email_format, created_at, updated_at`

	cf := &domain.CompanyFormat{}
	err := r.db.QueryRowContext(ctx, query, id, strings.TrimSpace(companyName),
		strings.TrimSpace(domainName), strings.TrimSpace(emailFormat), time.Now()).Scan(
		&cf.ID, &cf.CompanyName, &cf.Domain, &cf.EmailFormat, &cf.CreatedAt, &cf.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("company format %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("update company format: %w", err)
	}
	return cf, nil
}

// Delete removes a format by id. Deleting an id that does not exist is
// not an error: the registry converges to the same state either way.
func (r *Registry) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM company_email_formats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company format: %w", err)
	}
	return nil
}

func validateFields(companyName, domainName, emailFormat string) error {
	if strings.TrimSpace(companyName) == "" {
		return domain.Validationf("company name is required")
	}
	if strings.TrimSpace(domainName) == "" {
		return domain.Validationf("domain is required")
	}
	if strings.TrimSpace(emailFormat) == "" {
		return domain.Validationf("email format is required")
	}
	if !strings.Contains(emailFormat, "@"+TokenDomain) {
		return domain.Validationf("email format must include @%s", TokenDomain)
	}
	return nil
}
