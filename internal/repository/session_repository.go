package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noticehub/notice-board-api/internal/models"
	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
)

// RedisSessionStore keeps sessions in Redis so concurrent replicas share
// one session space. Keys expire with the session TTL; logout deletes the
// key atomically.
type RedisSessionStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSessionStore constructs the store.
func NewRedisSessionStore(client *redis.Client, logger *zap.Logger) *RedisSessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSessionStore{client: client, logger: logger}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Put stores the session until its expiry.
func (s *RedisSessionStore) Put(ctx context.Context, session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.Token, err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return appErrors.Clone(appErrors.ErrSessionMiss, "session already expired")
	}

	if err := s.client.Set(ctx, sessionKey(session.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

// Get retrieves a session by token; a missing key is a session miss.
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrSessionMiss
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete wipes a session. Deleting an absent token is not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
