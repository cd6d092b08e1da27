package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noticehub/notice-board-api/internal/models"
	"github.com/noticehub/notice-board-api/pkg/digest"
	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
)

type mockCredentialStore struct {
	lookup         models.CredentialLookup
	lookupCalls    int
	lastDigest     string
	lastLoginErr   error
	lastLoginCalls int
}

func (m *mockCredentialStore) LookupByCredentials(ctx context.Context, username, passwordDigest string) models.CredentialLookup {
	m.lookupCalls++
	m.lastDigest = passwordDigest
	return m.lookup
}

func (m *mockCredentialStore) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	m.lastLoginCalls++
	return m.lastLoginErr
}

func TestAuthenticatePersistedMatch(t *testing.T) {
	created := time.Now().Add(-24 * time.Hour)
	store := &mockCredentialStore{lookup: models.CredentialLookup{
		Outcome: models.LookupFound,
		Account: &models.Account{
			ID:        1,
			Username:  "admin",
			Email:     "admin@example.com",
			Role:      models.RoleAdmin,
			Status:    models.AccountActive,
			CreatedAt: created,
		},
	}}
	svc := NewAuthService(store, map[string]models.StaticCredential{}, zap.NewNop())

	identity, err := svc.Authenticate(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.ID)
	assert.Equal(t, models.RoleAdmin, identity.Role)
	require.NotNil(t, identity.CreatedAt)
	assert.Equal(t, created, *identity.CreatedAt)
	assert.Equal(t, digest.SHA256Hex("secret"), store.lastDigest)
	assert.Equal(t, 1, store.lastLoginCalls)
}

func TestAuthenticateLastLoginFailureIsNotFatal(t *testing.T) {
	store := &mockCredentialStore{lookup: models.CredentialLookup{
		Outcome: models.LookupFound,
		Account: &models.Account{ID: 2, Username: "user", Role: models.RoleUser, Status: models.AccountActive},
	}}
	store.lastLoginErr = errors.New("deadlock")
	svc := NewAuthService(store, map[string]models.StaticCredential{}, zap.NewNop())

	identity, err := svc.Authenticate(context.Background(), "user", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(2), identity.ID)
}

func TestAuthenticateStaticFallback(t *testing.T) {
	store := &mockCredentialStore{lookup: models.CredentialLookup{Outcome: models.LookupNotFound}}
	svc := NewAuthService(store, nil, zap.NewNop())

	identity, err := svc.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
	assert.Nil(t, identity.CreatedAt)
	assert.Nil(t, identity.LastLogin)
	assert.Equal(t, 1, store.lookupCalls)
}

func TestAuthenticateStoreOutageRoutesToFallback(t *testing.T) {
	store := &mockCredentialStore{lookup: models.CredentialLookup{
		Outcome: models.LookupStoreUnavailable,
		Err:     errors.New("connection refused"),
	}}
	svc := NewAuthService(store, nil, zap.NewNop())

	identity, err := svc.Authenticate(context.Background(), "jane_admin", "admin456")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
	assert.Equal(t, "jane_admin", identity.Username)
}

func TestAuthenticateBothTiersMiss(t *testing.T) {
	store := &mockCredentialStore{lookup: models.CredentialLookup{Outcome: models.LookupNotFound}}
	svc := NewAuthService(store, nil, zap.NewNop())

	_, err := svc.Authenticate(context.Background(), "admin", "wrong")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthenticateEmptyInputShortCircuits(t *testing.T) {
	store := &mockCredentialStore{}
	svc := NewAuthService(store, nil, zap.NewNop())

	_, err := svc.Authenticate(context.Background(), "", "secret")
	require.Error(t, err)
	_, err = svc.Authenticate(context.Background(), "admin", "")
	require.Error(t, err)
	assert.Zero(t, store.lookupCalls)
}
