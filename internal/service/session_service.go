package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noticehub/notice-board-api/internal/models"
	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
)

type authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.Identity, error)
}

// SessionStore abstracts where sessions live. Implementations must be safe
// for concurrent use and treat an expired session as absent.
type SessionStore interface {
	Put(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore is the default single-process store. Expired entries
// are dropped lazily on read.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessionStore constructs an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]models.Session)}
}

// Put stores the session.
func (s *MemorySessionStore) Put(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = *session
	return nil
}

// Get returns the session or a session miss when absent or expired.
func (s *MemorySessionStore) Get(_ context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrSessionMiss
	}
	if session.Expired(time.Now().UTC()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, appErrors.ErrSessionMiss
	}
	copied := session
	return &copied, nil
}

// Delete wipes the session; absent tokens are a no-op.
func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// SessionService is the session authority: it turns a verified identity
// into request-scoped state with an explicit lifecycle (create on login,
// destroy on logout) and answers authorization checks. Sessions are held
// in the store, never in process-global variables.
type SessionService struct {
	auth   authenticator
	store  SessionStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionService constructs the authority.
func NewSessionService(auth authenticator, store SessionStore, ttl time.Duration, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemorySessionStore()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionService{auth: auth, store: store, ttl: ttl, logger: logger}
}

// Login authenticates and, on success, creates a session around the
// verified identity. Authentication failures pass through untouched.
func (s *SessionService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	identity, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    identity.ID,
		Username:  identity.Username,
		Email:     identity.Email,
		Role:      identity.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.store.Put(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	s.logger.Info("session created", zap.String("username", identity.Username), zap.String("role", string(identity.Role)))
	return session, nil
}

// Logout destroys the session. All identity state is wiped in one store
// delete; a token that no longer resolves is not an error.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if session, err := s.store.Get(ctx, token); err == nil {
		s.logger.Info("session destroyed", zap.String("username", session.Username))
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to destroy session")
	}
	return nil
}

// Current resolves a token to its live session.
func (s *SessionService) Current(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, appErrors.ErrSessionMiss
	}
	return s.store.Get(ctx, token)
}

// IsAuthenticated reports whether the token resolves to a live session.
func (s *SessionService) IsAuthenticated(ctx context.Context, token string) bool {
	_, err := s.Current(ctx, token)
	return err == nil
}

// IsAdmin reports whether the token belongs to an authenticated admin.
func (s *SessionService) IsAdmin(ctx context.Context, token string) bool {
	session, err := s.Current(ctx, token)
	return err == nil && session.Identity().IsAdmin()
}

// RequireAdmin yields a single verdict that still distinguishes "not
// authenticated" (ErrUnauthorized) from "authenticated but not an admin"
// (ErrForbidden) so callers can choose the right message.
func (s *SessionService) RequireAdmin(ctx context.Context, token string) error {
	session, err := s.Current(ctx, token)
	if err != nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "please log in to access this resource")
	}
	if session.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "admin privileges required")
	}
	return nil
}
