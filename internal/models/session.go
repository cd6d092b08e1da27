package models

import "time"

// Session is the request-scoped state created by a successful login and
// destroyed by logout. The token is the opaque handle handed to the UI
// shell; nothing about the session lives in process-global state.
type Session struct {
	Token     string      `json:"token"`
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      AccountRole `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired reports whether the session has passed its lifetime.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && now.After(s.ExpiresAt)
}

// Identity projects the session back into a verified identity.
func (s *Session) Identity() *Identity {
	if s == nil {
		return nil
	}
	return &Identity{
		ID:       s.UserID,
		Username: s.Username,
		Email:    s.Email,
		Role:     s.Role,
	}
}
