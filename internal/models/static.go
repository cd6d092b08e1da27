package models

// StaticCredential is an entry of the in-process fallback credential table.
// Unlike persisted accounts these store plaintext and are compared as such;
// the table is read-only after process start and safe for concurrent use.
type StaticCredential struct {
	ID       int64
	Username string
	Password string
	Email    string
	Role     AccountRole
}

// StaticCredentials is the fixed fallback table consulted when the
// persisted store has no match or is unreachable. The same entries are
// seeded (with digested passwords) into an empty users table at bootstrap.
var StaticCredentials = map[string]StaticCredential{
	"admin": {
		ID:       1,
		Username: "admin",
		Password: "admin123",
		Email:    "admin@noticeboard.com",
		Role:     RoleAdmin,
	},
	"user": {
		ID:       2,
		Username: "user",
		Password: "user123",
		Email:    "user@noticeboard.com",
		Role:     RoleUser,
	},
	"john_doe": {
		ID:       3,
		Username: "john_doe",
		Password: "password123",
		Email:    "john.doe@example.com",
		Role:     RoleUser,
	},
	"jane_admin": {
		ID:       4,
		Username: "jane_admin",
		Password: "admin456",
		Email:    "jane.admin@example.com",
		Role:     RoleAdmin,
	},
}
