package models

import "time"

// AccountRole represents the available roles for authorization checks.
type AccountRole string

const (
	RoleAdmin AccountRole = "admin"
	RoleUser  AccountRole = "user"
)

// AccountStatus restricts which accounts may authenticate.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Account represents an identity record stored in the users table.
// Accounts are provisioned by schema bootstrap or out-of-band tooling;
// this service never creates or destroys them.
type Account struct {
	ID           int64         `db:"id" json:"id"`
	Username     string        `db:"username" json:"username"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password" json:"-"`
	Role         AccountRole   `db:"role" json:"role"`
	Status       AccountStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	LastLogin    *time.Time    `db:"last_login" json:"last_login,omitempty"`
}

// Identity is the verified result of an authentication attempt. Tier-2
// (static table) identities carry no timestamps.
type Identity struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      AccountRole `json:"role"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
	LastLogin *time.Time  `json:"last_login,omitempty"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// LookupOutcome classifies a credential lookup against the persisted store.
// StoreUnavailable and NotFound both route the verifier to the fallback
// tier; only the caller's logging distinguishes them.
type LookupOutcome int

const (
	LookupFound LookupOutcome = iota
	LookupNotFound
	LookupStoreUnavailable
)

// CredentialLookup is the explicit result of a tier-1 credential check.
type CredentialLookup struct {
	Outcome LookupOutcome
	Account *Account
	Err     error
}
