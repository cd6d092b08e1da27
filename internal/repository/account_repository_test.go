package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noticehub/notice-board-api/internal/models"
)

var accountRows = []string{"id", "username", "email", "password", "role", "status", "created_at", "last_login"}

func TestLookupByCredentialsFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(accountRows).
		AddRow(1, "admin", "admin@example.com", "digest", string(models.RoleAdmin), string(models.AccountActive), now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE username = ? AND password = ? AND status = 'active'")).
		WithArgs("admin", "digest").
		WillReturnRows(rows)

	lookup := repo.LookupByCredentials(context.Background(), "admin", "digest")
	assert.Equal(t, models.LookupFound, lookup.Outcome)
	require.NotNil(t, lookup.Account)
	assert.Equal(t, models.RoleAdmin, lookup.Account.Role)
	assert.Nil(t, lookup.Account.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupByCredentialsNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE username = ? AND password = ? AND status = 'active'")).
		WithArgs("ghost", "digest").
		WillReturnError(sql.ErrNoRows)

	lookup := repo.LookupByCredentials(context.Background(), "ghost", "digest")
	assert.Equal(t, models.LookupNotFound, lookup.Outcome)
	assert.Nil(t, lookup.Account)
	assert.NoError(t, lookup.Err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupByCredentialsStoreUnavailable(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE username = ? AND password = ? AND status = 'active'")).
		WithArgs("admin", "digest").
		WillReturnError(errors.New("connection refused"))

	lookup := repo.LookupByCredentials(context.Background(), "admin", "digest")
	assert.Equal(t, models.LookupStoreUnavailable, lookup.Outcome)
	assert.Nil(t, lookup.Account)
	assert.Error(t, lookup.Err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLastLogin(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	ts := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = ? WHERE id = ?")).
		WithArgs(ts, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateLastLogin(context.Background(), 1, ts)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WithArgs(int64(77)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 77)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
