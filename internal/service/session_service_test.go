package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noticehub/notice-board-api/internal/models"
	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
)

type mockAuthenticator struct {
	identity *models.Identity
	err      error
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.identity, nil
}

func adminSessionService() *SessionService {
	auth := &mockAuthenticator{identity: &models.Identity{ID: 1, Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin}}
	return NewSessionService(auth, NewMemorySessionStore(), time.Hour, zap.NewNop())
}

func TestLoginCreatesSession(t *testing.T) {
	svc := adminSessionService()

	session, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, models.RoleAdmin, session.Role)
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))

	resolved, err := svc.Current(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, resolved.UserID)
	assert.True(t, svc.IsAuthenticated(context.Background(), session.Token))
}

func TestLoginFailurePassesThrough(t *testing.T) {
	auth := &mockAuthenticator{err: appErrors.ErrInvalidCredentials}
	svc := NewSessionService(auth, NewMemorySessionStore(), time.Hour, zap.NewNop())

	_, err := svc.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	svc := adminSessionService()

	session, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), session.Token))
	assert.False(t, svc.IsAuthenticated(context.Background(), session.Token))

	// repeating the logout or presenting a bogus token is not an error
	require.NoError(t, svc.Logout(context.Background(), session.Token))
	require.NoError(t, svc.Logout(context.Background(), "no-such-token"))
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestCurrentRejectsEmptyToken(t *testing.T) {
	svc := adminSessionService()

	_, err := svc.Current(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionMiss.Code, appErrors.FromError(err).Code)
}

func TestRequireAdminVerdicts(t *testing.T) {
	userAuth := &mockAuthenticator{identity: &models.Identity{ID: 2, Username: "user", Role: models.RoleUser}}
	svc := NewSessionService(userAuth, NewMemorySessionStore(), time.Hour, zap.NewNop())

	err := svc.RequireAdmin(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	session, err := svc.Login(context.Background(), "user", "user123")
	require.NoError(t, err)
	err = svc.RequireAdmin(context.Background(), session.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.False(t, svc.IsAdmin(context.Background(), session.Token))

	admin := adminSessionService()
	adminSession, err := admin.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.NoError(t, admin.RequireAdmin(context.Background(), adminSession.Token))
	assert.True(t, admin.IsAdmin(context.Background(), adminSession.Token))
}

func TestMemoryStoreDropsExpiredSessions(t *testing.T) {
	store := NewMemorySessionStore()
	now := time.Now().UTC()

	expired := &models.Session{Token: "stale", UserID: 1, Role: models.RoleAdmin, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, store.Put(context.Background(), expired))

	_, err := store.Get(context.Background(), "stale")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionMiss.Code, appErrors.FromError(err).Code)

	// expired entry was dropped, a second read behaves the same
	_, err = store.Get(context.Background(), "stale")
	require.Error(t, err)
}

func TestMemoryStoreReturnsCopy(t *testing.T) {
	store := NewMemorySessionStore()
	now := time.Now().UTC()

	session := &models.Session{Token: "t", UserID: 1, Username: "admin", Role: models.RoleAdmin, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Put(context.Background(), session))

	first, err := store.Get(context.Background(), "t")
	require.NoError(t, err)
	first.Username = "mutated"

	second, err := store.Get(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "admin", second.Username)
}
