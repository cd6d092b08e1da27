package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noticehub/notice-board-api/internal/models"
	"github.com/noticehub/notice-board-api/pkg/digest"
	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
)

type credentialStore interface {
	LookupByCredentials(ctx context.Context, username, passwordDigest string) models.CredentialLookup
	UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error
}

// AuthService verifies credentials in two strict tiers: the persisted store
// first, then the in-process static table. Every failure collapses into a
// single invalid-credentials outcome so callers cannot tell an unknown
// username from a wrong password or a store outage.
type AuthService struct {
	store  credentialStore
	static map[string]models.StaticCredential
	logger *zap.Logger
}

// NewAuthService constructs the verifier. A nil static table falls back to
// the built-in demo credential set.
func NewAuthService(store credentialStore, static map[string]models.StaticCredential, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if static == nil {
		static = models.StaticCredentials
	}
	return &AuthService{store: store, static: static, logger: logger}
}

// Authenticate runs the two-tier pipeline for one attempt. Empty input
// short-circuits before any lookup. A store error never propagates to the
// caller; it routes to tier 2 exactly like a miss.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Identity, error) {
	if username == "" || password == "" {
		return nil, appErrors.ErrInvalidCredentials
	}

	lookup := s.store.LookupByCredentials(ctx, username, digest.SHA256Hex(password))
	switch lookup.Outcome {
	case models.LookupFound:
		account := lookup.Account
		now := time.Now().UTC()
		if err := s.store.UpdateLastLogin(ctx, account.ID, now); err != nil {
			s.logger.Warn("failed to update last login", zap.Int64("user_id", account.ID), zap.Error(err))
		}
		s.logger.Info("authenticated via persisted store", zap.String("username", username))
		return &models.Identity{
			ID:        account.ID,
			Username:  account.Username,
			Email:     account.Email,
			Role:      account.Role,
			CreatedAt: &account.CreatedAt,
			LastLogin: account.LastLogin,
		}, nil
	case models.LookupStoreUnavailable:
		s.logger.Error("credential store unavailable, using static fallback", zap.Error(lookup.Err))
	case models.LookupNotFound:
		s.logger.Debug("no persisted match, trying static fallback", zap.String("username", username))
	}

	if cred, ok := s.static[username]; ok && cred.Password == password {
		s.logger.Info("authenticated via static table", zap.String("username", username))
		return &models.Identity{
			ID:       cred.ID,
			Username: cred.Username,
			Email:    cred.Email,
			Role:     cred.Role,
		}, nil
	}

	s.logger.Warn("authentication failed", zap.String("username", username))
	return nil, appErrors.ErrInvalidCredentials
}
