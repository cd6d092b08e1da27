package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noticehub/notice-board-api/internal/models"
	"github.com/noticehub/notice-board-api/pkg/digest"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INT AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(50) UNIQUE NOT NULL,
	email VARCHAR(100) UNIQUE NOT NULL,
	password VARCHAR(255) NOT NULL,
	role ENUM('admin', 'user') DEFAULT 'user',
	status ENUM('active', 'inactive') DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	last_login TIMESTAMP NULL
)`

const createNoticesTable = `
CREATE TABLE IF NOT EXISTS notices (
	id INT AUTO_INCREMENT PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	content TEXT NOT NULL,
	category VARCHAR(50) NOT NULL,
	priority ENUM('low', 'medium', 'high') DEFAULT 'medium',
	status ENUM('active', 'inactive', 'expired') DEFAULT 'active',
	user_id INT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	expires_at TIMESTAMP NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
	INDEX idx_category (category),
	INDEX idx_status (status),
	INDEX idx_created_at (created_at)
)`

// SchemaInitializer ensures the persisted entities exist before the
// repositories touch them. Safe to run on every startup.
type SchemaInitializer struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSchemaInitializer constructs the initializer.
func NewSchemaInitializer(db *sqlx.DB, logger *zap.Logger) *SchemaInitializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaInitializer{db: db, logger: logger}
}

// EnsureSchema idempotently creates the users and notices tables with their
// uniqueness constraints, enumerated domains, cascade foreign key and the
// secondary indexes backing the filtered search access pattern.
func (s *SchemaInitializer) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createUsersTable); err != nil {
		return wrapDBError(err, "create users table")
	}
	s.logger.Debug("users table ensured")

	if _, err := s.db.ExecContext(ctx, createNoticesTable); err != nil {
		return wrapDBError(err, "create notices table")
	}
	s.logger.Debug("notices table ensured")

	return nil
}

// SeedDemoAccounts inserts the static credential table entries into an
// empty users table so tier-1 authentication works out of the box. A
// non-empty table is left untouched. Failures are returned but callers
// treat them as non-fatal: the static fallback tier still authenticates.
func (s *SchemaInitializer) SeedDemoAccounts(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return wrapDBError(err, "count users")
	}
	if count > 0 {
		return nil
	}

	const insert = `INSERT INTO users (username, email, password, role) VALUES (?, ?, ?, ?)`
	for _, cred := range models.StaticCredentials {
		if _, err := s.db.ExecContext(ctx, insert, cred.Username, cred.Email, digest.SHA256Hex(cred.Password), string(cred.Role)); err != nil {
			return wrapDBError(err, "seed demo account")
		}
	}
	s.logger.Info("seeded demo accounts", zap.Int("count", len(models.StaticCredentials)))

	return nil
}
