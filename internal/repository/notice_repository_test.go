package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noticehub/notice-board-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var noticeRows = []string{"id", "title", "content", "category", "priority", "status", "user_id", "created_at", "updated_at", "expires_at", "username", "email"}

func TestInsertNotice(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notices").
		WithArgs("Exam schedule", "Finals start Monday", "Academic", "high", "active", nil, int64(1)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	id, err := repo.Insert(context.Background(), models.NoticeDraft{
		Title:    "Exam schedule",
		Content:  "Finals start Monday",
		Category: "Academic",
		Priority: models.PriorityHigh,
		Status:   models.NoticeActive,
		UserID:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertNoticeRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notices").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Insert(context.Background(), models.NoticeDraft{
		Title:    "Exam schedule",
		Content:  "Finals start Monday",
		Category: "Academic",
		Priority: models.PriorityHigh,
		Status:   models.NoticeActive,
		UserID:   1,
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNoticeComposesAllowedFields(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notices SET title = ?, priority = ?, updated_at = NOW() WHERE id = ?")).
		WithArgs("New title", "low", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Update(context.Background(), 5, map[string]interface{}{
		"title":    "New title",
		"priority": "low",
		"bogus":    "dropped",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNoticeNoMatch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notices SET status = ?, updated_at = NOW() WHERE id = ?")).
		WithArgs("inactive", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Update(context.Background(), 99, map[string]interface{}{"status": "inactive"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotice(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notices WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNoticeNoMatch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notices WHERE id = ?")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNoticeByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(noticeRows).
		AddRow(1, "Exam schedule", "Finals start Monday", "Academic", "high", "active", 1, now, now, nil, "admin", "admin@example.com")
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u ON n.user_id = u.id")).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	notice, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Exam schedule", notice.Title)
	require.NotNil(t, notice.Username)
	assert.Equal(t, "admin", *notice.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNoticeByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u ON n.user_id = u.id")).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchNoticesNoFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(noticeRows).
		AddRow(2, "Newer", "b", "General", "medium", "active", 1, now, now, nil, "admin", "admin@example.com").
		AddRow(1, "Older", "a", "General", "medium", "active", 1, now.Add(-time.Hour), now, nil, "admin", "admin@example.com")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 ORDER BY n.created_at DESC")).
		WillReturnRows(rows)

	notices, err := repo.Search(context.Background(), models.NoticeFilter{})
	require.NoError(t, err)
	require.Len(t, notices, 2)
	assert.Equal(t, "Newer", notices[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchNoticesComposesPredicates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	limit, offset := 10, 20
	filter := models.NoticeFilter{
		Category: "Events",
		Status:   models.NoticeActive,
		Search:   "Fest",
		Limit:    &limit,
		Offset:   &offset,
	}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND n.category = ? AND n.status = ? AND (LOWER(n.title) LIKE ? OR LOWER(n.content) LIKE ?) ORDER BY n.created_at DESC LIMIT ? OFFSET ?")).
		WithArgs("Events", "active", "%fest%", "%fest%", 10, 20).
		WillReturnRows(sqlmock.NewRows(noticeRows))

	notices, err := repo.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.NotNil(t, notices)
	assert.Empty(t, notices)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchNoticesOffsetIgnoredWithoutLimit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	offset := 5
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 ORDER BY n.created_at DESC")).
		WillReturnRows(sqlmock.NewRows(noticeRows))

	_, err := repo.Search(context.Background(), models.NoticeFilter{Offset: &offset})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatistics(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notices")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY category")).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).
			AddRow("General", 8).AddRow("Events", 4))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY FIELD(priority, 'high', 'medium', 'low')")).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).
			AddRow("high", 2).AddRow("medium", 10))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).
			AddRow("active", 11).AddRow("expired", 1))
	mock.ExpectQuery(regexp.QuoteMeta("DATE_SUB(NOW(), INTERVAL 30 DAY)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	snapshot, err := repo.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, snapshot.TotalNotices)
	assert.Equal(t, 3, snapshot.RecentNotices)
	assert.Len(t, snapshot.ByCategory, 2)
	assert.Len(t, snapshot.ByPriority, 2)
	assert.Equal(t, "high", snapshot.ByPriority[0].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatisticsPropagatesFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notices")).
		WillReturnError(errors.New("server has gone away"))

	_, err := repo.Statistics(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
