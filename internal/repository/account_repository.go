package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noticehub/notice-board-api/internal/models"
)

// AccountRepository provides read access to the persisted credential store.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates the repository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// LookupByCredentials checks username + password digest against active
// accounts. The result is an explicit three-state outcome: a store failure
// is reported as StoreUnavailable, never raised, so the verifier can route
// it to the fallback tier as data rather than control flow.
func (r *AccountRepository) LookupByCredentials(ctx context.Context, username, passwordDigest string) models.CredentialLookup {
	const query = `SELECT id, username, email, password, role, status, created_at, last_login
FROM users
WHERE username = ? AND password = ? AND status = 'active'
LIMIT 1`

	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, username, passwordDigest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CredentialLookup{Outcome: models.LookupNotFound}
		}
		return models.CredentialLookup{
			Outcome: models.LookupStoreUnavailable,
			Err:     fmt.Errorf("lookup credentials: %w", err),
		}
	}

	return models.CredentialLookup{Outcome: models.LookupFound, Account: &account}
}

// UpdateLastLogin advances the last_login timestamp for an account.
func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	const query = `UPDATE users SET last_login = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, ts, id); err != nil {
		return wrapDBError(err, "update last login")
	}
	return nil
}

// FindByID returns an account by identifier.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	const query = `SELECT id, username, email, password, role, status, created_at, last_login
FROM users WHERE id = ? LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, wrapDBError(err, "find account by id")
	}
	return &account, nil
}
