package auth

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach/internal/domain"
)

func newMockUserStore(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db), mock
}

func TestCreateUser(t *testing.T) {
	store, mock := newMockUserStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("dana").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "dana", "hash", "dana@gmail.com", "app-pass", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u, err := store.Create(context.Background(), "dana", "hash", " dana@gmail.com ", "app-pass")
	require.NoError(t, err)
	assert.Equal(t, "dana", u.Username)
	assert.Equal(t, "dana@gmail.com", u.GmailAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store, mock := newMockUserStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("dana").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := store.Create(context.Background(), "dana", "hash", "", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateUserConflictWhenInsertLosesRace(t *testing.T) {
	store, mock := newMockUserStore(t)

	// Another registration can commit between the EXISTS check and the
	// insert; the username unique constraint still maps to a conflict.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("dana").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.Create(context.Background(), "dana", "hash", "", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
