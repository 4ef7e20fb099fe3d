package format

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach/internal/domain"
)

func newMockRegistry(t *testing.T) (*Registry, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRegistry(db), mock
}

func formatRows(cf *domain.CompanyFormat) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "company_name", "domain", "email_format", "created_at", "updated_at"}).
		AddRow(cf.ID, cf.CompanyName, cf.Domain, cf.EmailFormat, cf.CreatedAt, cf.UpdatedAt)
}

func TestLookupCaseInsensitive(t *testing.T) {
	reg, mock := newMockRegistry(t)

	stored := &domain.CompanyFormat{
		ID:          uuid.New(),
		CompanyName: "Acme",
		Domain:      "acme.com",
		EmailFormat: "{f}.{lastname}@{domain}",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	// The query lower-cases both sides, so ACME and acme hit the same row.
	for _, input := range []string{"ACME", "acme", "Acme"} {
		mock.ExpectQuery(regexp.QuoteMeta("LOWER(company_name) = LOWER($1)")).
			WithArgs(input).
			WillReturnRows(formatRows(stored))

		got, err := reg.Lookup(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
		assert.Equal(t, "Acme", got.CompanyName)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupMiss(t *testing.T) {
	reg, mock := newMockRegistry(t)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(company_name) = LOWER($1)")).
		WithArgs("Nowhere").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_name", "domain", "email_format", "created_at", "updated_at"}))

	_, err := reg.Lookup(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRejectsEmptyFields(t *testing.T) {
	reg, _ := newMockRegistry(t)

	_, err := reg.Create(context.Background(), "", "acme.com", "{f}@{domain}")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = reg.Create(context.Background(), "Acme", "", "{f}@{domain}")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = reg.Create(context.Background(), "Acme", "acme.com", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateRejectsFormatWithoutDomainSuffix(t *testing.T) {
	reg, _ := newMockRegistry(t)

	_, err := reg.Create(context.Background(), "Acme", "acme.com", "{f}.{lastname}@gmail.com")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateConflictOnCaseInsensitiveDuplicate(t *testing.T) {
	reg, mock := newMockRegistry(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("ACME").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := reg.Create(context.Background(), "ACME", "acme.com", "{f}@{domain}")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateConflictWhenInsertLosesRace(t *testing.T) {
	reg, mock := newMockRegistry(t)

	// A concurrent create can land between the EXISTS check and the
	// insert; the unique index rejection still maps to a conflict.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("Acme").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO company_email_formats")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := reg.Create(context.Background(), "Acme", "acme.com", "{f}@{domain}")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInsertsTrimmedFields(t *testing.T) {
	reg, mock := newMockRegistry(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("  Acme  ").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO company_email_formats")).
		WithArgs(sqlmock.AnyArg(), "Acme", "acme.com", "{f}@{domain}", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cf, err := reg.Create(context.Background(), "  Acme  ", " acme.com ", " {f}@{domain} ")
	require.NoError(t, err)
	assert.Equal(t, "Acme", cf.CompanyName)
	assert.NotEqual(t, uuid.Nil, cf.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingID(t *testing.T) {
	reg, mock := newMockRegistry(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE company_email_formats")).
		WithArgs(id, "Acme", "acme.com", "{f}@{domain}", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_name", "domain", "email_format", "created_at", "updated_at"}))

	_, err := reg.Update(context.Background(), id, "Acme", "acme.com", "{f}@{domain}")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	reg, mock := newMockRegistry(t)

	id := uuid.New()
	// Zero rows affected is still success.
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM company_email_formats")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, reg.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrderedByName(t *testing.T) {
	reg, mock := newMockRegistry(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "company_name", "domain", "email_format", "created_at", "updated_at"}).
		AddRow(uuid.New(), "Acme", "acme.com", "{f}@{domain}", now, now).
		AddRow(uuid.New(), "Globex", "globex.com", "{firstname}@{domain}", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY company_name ASC")).WillReturnRows(rows)

	formats, err := reg.List(context.Background())
	require.NoError(t, err)
	require.Len(t, formats, 2)
	assert.Equal(t, "Acme", formats[0].CompanyName)
	assert.Equal(t, "Globex", formats[1].CompanyName)
}
