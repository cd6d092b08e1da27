package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noticehub/notice-board-api/internal/models"
)

// noticeColumns is the joined projection shared by GetByID and Search.
const noticeColumns = `n.id, n.title, n.content, n.category, n.priority, n.status,
n.user_id, n.created_at, n.updated_at, n.expires_at, u.username, u.email`

// allowedUpdateFields is the mutable field allow-list for partial updates,
// in the order clauses are emitted. Anything else is silently dropped.
var allowedUpdateFields = []string{"title", "content", "category", "priority", "status", "expires_at"}

// NoticeRepository provides persistence for notices.
type NoticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository creates the repository.
func NewNoticeRepository(db *sqlx.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// Insert stores a new notice inside its own transaction and returns the
// assigned identifier. On any failure the transaction is rolled back and
// the classified error is returned; no partial write becomes visible.
func (r *NoticeRepository) Insert(ctx context.Context, draft models.NoticeDraft) (int64, error) {
	const query = `INSERT INTO notices (title, content, category, priority, status, expires_at, user_id)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, wrapDBError(err, "begin insert notice")
	}

	res, err := tx.ExecContext(ctx, query,
		draft.Title,
		draft.Content,
		draft.Category,
		string(draft.Priority),
		string(draft.Status),
		draft.ExpiresAt,
		draft.UserID,
	)
	if err != nil {
		_ = tx.Rollback()
		return 0, wrapDBError(err, "insert notice")
	}

	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, wrapDBError(err, "insert notice id")
	}

	if err := tx.Commit(); err != nil {
		return 0, wrapDBError(err, "commit insert notice")
	}

	return id, nil
}

// Update applies a partial update built from the allow-listed fields of the
// supplied mapping. updated_at always advances. Returns false when no row
// matched the id. The caller guarantees the mapping is non-empty.
func (r *NoticeRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (bool, error) {
	setClauses := make([]string, 0, len(allowedUpdateFields)+1)
	args := make([]interface{}, 0, len(allowedUpdateFields)+1)

	for _, field := range allowedUpdateFields {
		if value, ok := fields[field]; ok {
			setClauses = append(setClauses, field+" = ?")
			args = append(args, value)
		}
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE notices SET %s WHERE id = ?", strings.Join(setClauses, ", "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrapDBError(err, "update notice")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, wrapDBError(err, "update notice rows")
	}

	return affected > 0, nil
}

// Delete removes a notice permanently. Returns false when no row matched.
func (r *NoticeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notices WHERE id = ?", id)
	if err != nil {
		return false, wrapDBError(err, "delete notice")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, wrapDBError(err, "delete notice rows")
	}

	return affected > 0, nil
}

// GetByID returns a notice with its owner's username and email joined in.
// A missing row surfaces as sql.ErrNoRows for the service to translate.
func (r *NoticeRepository) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	query := fmt.Sprintf(`SELECT %s
FROM notices n
LEFT JOIN users u ON n.user_id = u.id
WHERE n.id = ?`, noticeColumns)

	var notice models.Notice
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, wrapDBError(err, "get notice")
	}

	return &notice, nil
}

// Search composes a query by AND-ing only the predicates present in the
// filter, always ordered by created_at descending. Values are bound, never
// interpolated. Limit/offset validation happens in the service.
func (r *NoticeRepository) Search(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(`SELECT %s
FROM notices n
LEFT JOIN users u ON n.user_id = u.id
WHERE 1=1`, noticeColumns))

	var args []interface{}

	if filter.Category != "" {
		builder.WriteString(" AND n.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		builder.WriteString(" AND n.status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.DateFrom != nil {
		builder.WriteString(" AND n.created_at >= ?")
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		builder.WriteString(" AND n.created_at <= ?")
		args = append(args, *filter.DateTo)
	}
	if filter.UserID != nil {
		builder.WriteString(" AND n.user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Search != "" {
		builder.WriteString(" AND (LOWER(n.title) LIKE ? OR LOWER(n.content) LIKE ?)")
		term := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, term, term)
	}

	builder.WriteString(" ORDER BY n.created_at DESC")

	if filter.Limit != nil {
		builder.WriteString(" LIMIT ?")
		args = append(args, *filter.Limit)
		if filter.Offset != nil {
			builder.WriteString(" OFFSET ?")
			args = append(args, *filter.Offset)
		}
	}

	notices := []models.Notice{}
	if err := r.db.SelectContext(ctx, &notices, builder.String(), args...); err != nil {
		return nil, wrapDBError(err, "search notices")
	}

	return notices, nil
}

// Statistics runs the five aggregate reads on a single pooled connection.
// Grouped results omit empty groups; the service pads the priority tiers.
func (r *NoticeRepository) Statistics(ctx context.Context) (*models.StatisticsSnapshot, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, wrapDBError(err, "statistics connection")
	}
	defer conn.Close()

	snapshot := &models.StatisticsSnapshot{}

	if err := conn.GetContext(ctx, &snapshot.TotalNotices, "SELECT COUNT(*) FROM notices"); err != nil {
		return nil, wrapDBError(err, "count notices")
	}

	const byCategory = `SELECT category AS label, COUNT(*) AS count
FROM notices GROUP BY category ORDER BY count DESC`
	if err := conn.SelectContext(ctx, &snapshot.ByCategory, byCategory); err != nil {
		return nil, wrapDBError(err, "count by category")
	}

	const byPriority = `SELECT priority AS label, COUNT(*) AS count
FROM notices GROUP BY priority ORDER BY FIELD(priority, 'high', 'medium', 'low')`
	if err := conn.SelectContext(ctx, &snapshot.ByPriority, byPriority); err != nil {
		return nil, wrapDBError(err, "count by priority")
	}

	const byStatus = `SELECT status AS label, COUNT(*) AS count
FROM notices GROUP BY status ORDER BY count DESC`
	if err := conn.SelectContext(ctx, &snapshot.ByStatus, byStatus); err != nil {
		return nil, wrapDBError(err, "count by status")
	}

	const recent = `SELECT COUNT(*) FROM notices WHERE created_at >= DATE_SUB(NOW(), INTERVAL 30 DAY)`
	if err := conn.GetContext(ctx, &snapshot.RecentNotices, recent); err != nil {
		return nil, wrapDBError(err, "count recent notices")
	}

	return snapshot, nil
}
