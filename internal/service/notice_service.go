package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noticehub/notice-board-api/internal/models"
	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
	"github.com/noticehub/notice-board-api/pkg/export"
)

type noticeRepository interface {
	Insert(ctx context.Context, draft models.NoticeDraft) (int64, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.Notice, error)
	Search(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error)
	Statistics(ctx context.Context) (*models.StatisticsSnapshot, error)
}

// priorityOrder is the fixed enumeration the statistics contract promises,
// independent of counts or insertion order.
var priorityOrder = []models.NoticePriority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow}

// NoticeService owns validation, defaulting and orchestration over the
// notice repository. Every repository call runs under a bounded deadline so
// pool exhaustion waits a finite time instead of hanging.
type NoticeService struct {
	repo         noticeRepository
	validator    *validator.Validate
	logger       *zap.Logger
	metrics      *MetricsService
	queryTimeout time.Duration
}

// NewNoticeService constructs the service and registers the enum
// validators used by drafts.
func NewNoticeService(repo noticeRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, queryTimeout time.Duration) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	svc := &NoticeService{repo: repo, validator: validate, logger: logger, metrics: metrics, queryTimeout: queryTimeout}
	svc.validator.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.ValidCategory(fl.Field().String())
	})
	svc.validator.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return validPriority(models.NoticePriority(fl.Field().String()))
	})
	svc.validator.RegisterValidation("noticestatus", func(fl validator.FieldLevel) bool {
		return validStatus(models.NoticeStatus(fl.Field().String()))
	})
	return svc
}

// Create validates the draft, applies defaults and inserts it. Validation
// failures never reach the database.
func (s *NoticeService) Create(ctx context.Context, draft models.NoticeDraft) (int64, error) {
	if err := s.validator.Struct(draft); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice draft")
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	if draft.Status == "" {
		draft.Status = models.NoticeActive
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	id, err := s.repo.Insert(ctx, draft)
	s.metrics.ObserveDBQuery("notice_insert", time.Since(start))
	if err != nil {
		return 0, err
	}

	s.logger.Info("notice created", zap.Int64("id", id), zap.Int64("user_id", draft.UserID))
	return id, nil
}

// Update applies a partial update. An empty mapping, or one containing no
// allow-listed field, is a validation error raised before any database
// call. Unknown fields are dropped, never applied. Returns false when the
// id matched no row.
func (s *NoticeService) Update(ctx context.Context, id int64, fields map[string]interface{}) (bool, error) {
	if len(fields) == 0 {
		return false, appErrors.Clone(appErrors.ErrValidation, "no update data provided")
	}

	effective := make(map[string]interface{}, len(fields))
	for _, field := range []string{"title", "content", "category", "priority", "status", "expires_at"} {
		if value, ok := fields[field]; ok {
			effective[field] = value
		}
	}
	if len(effective) == 0 {
		return false, appErrors.Clone(appErrors.ErrValidation, "no valid fields to update")
	}
	if err := validateUpdateValues(effective); err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	ok, err := s.repo.Update(ctx, id, effective)
	s.metrics.ObserveDBQuery("notice_update", time.Since(start))
	if err != nil {
		return false, err
	}

	s.logger.Info("notice updated", zap.Int64("id", id), zap.Bool("matched", ok))
	return ok, nil
}

// Delete removes a notice permanently; false means nothing matched.
func (s *NoticeService) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	ok, err := s.repo.Delete(ctx, id)
	s.metrics.ObserveDBQuery("notice_delete", time.Since(start))
	if err != nil {
		return false, err
	}

	s.logger.Info("notice deleted", zap.Int64("id", id), zap.Bool("matched", ok))
	return ok, nil
}

// Get returns a notice by id with owner identity joined in.
func (s *NoticeService) Get(ctx context.Context, id int64) (*models.Notice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	notice, err := s.repo.GetByID(ctx, id)
	s.metrics.ObserveDBQuery("notice_get", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, err
	}
	return notice, nil
}

// Search returns notices matching the filter, newest first. An offset
// without a limit is rejected instead of being silently dropped.
func (s *NoticeService) Search(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error) {
	if filter.Offset != nil && filter.Limit == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "offset requires a limit")
	}
	if filter.Limit != nil && *filter.Limit < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "limit must not be negative")
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "offset must not be negative")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	notices, err := s.repo.Search(ctx, filter)
	s.metrics.ObserveDBQuery("notice_search", time.Since(start))
	if err != nil {
		return nil, err
	}
	return notices, nil
}

// Statistics computes the snapshot on demand. The priority grouping is
// padded to the full fixed enumeration; other groupings keep the natural
// omission of empty groups.
func (s *NoticeService) Statistics(ctx context.Context) (*models.StatisticsSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	snapshot, err := s.repo.Statistics(ctx)
	s.metrics.ObserveDBQuery("notice_statistics", time.Since(start))
	if err != nil {
		return nil, err
	}

	snapshot.ByPriority = padPriorities(snapshot.ByPriority)
	snapshot.GeneratedAt = time.Now().UTC()
	return snapshot, nil
}

// ExportCSV renders the filtered notice list as CSV.
func (s *NoticeService) ExportCSV(ctx context.Context, filter models.NoticeFilter) ([]byte, error) {
	notices, err := s.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Title", "Category", "Priority", "Status", "Author", "Created At", "Expires At"},
	}
	for _, n := range notices {
		author := ""
		if n.Username != nil {
			author = *n.Username
		}
		expires := ""
		if n.ExpiresAt != nil {
			expires = n.ExpiresAt.Format(time.RFC3339)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":         fmt.Sprintf("%d", n.ID),
			"Title":      n.Title,
			"Category":   n.Category,
			"Priority":   string(n.Priority),
			"Status":     string(n.Status),
			"Author":     author,
			"Created At": n.CreatedAt.Format(time.RFC3339),
			"Expires At": expires,
		})
	}

	return export.NewCSVExporter().Render(dataset)
}

// ExportStatisticsPDF renders the statistics snapshot as a tabular PDF.
func (s *NoticeService) ExportStatisticsPDF(ctx context.Context) ([]byte, error) {
	snapshot, err := s.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: []string{"Metric", "Value"}}
	addRow := func(metric string, value interface{}) {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Metric": metric,
			"Value":  fmt.Sprintf("%v", value),
		})
	}

	addRow("Total notices", snapshot.TotalNotices)
	addRow("Notices in last 30 days", snapshot.RecentNotices)
	for _, g := range snapshot.ByPriority {
		addRow("Priority: "+g.Label, g.Count)
	}
	for _, g := range snapshot.ByCategory {
		addRow("Category: "+g.Label, g.Count)
	}
	for _, g := range snapshot.ByStatus {
		addRow("Status: "+g.Label, g.Count)
	}

	return export.NewPDFExporter().Render(dataset, "Notice Board Statistics")
}

func padPriorities(groups []models.GroupCount) []models.GroupCount {
	counts := make(map[string]int, len(groups))
	for _, g := range groups {
		counts[g.Label] = g.Count
	}
	padded := make([]models.GroupCount, 0, len(priorityOrder))
	for _, p := range priorityOrder {
		padded = append(padded, models.GroupCount{Label: string(p), Count: counts[string(p)]})
	}
	return padded
}

func validateUpdateValues(fields map[string]interface{}) error {
	if v, ok := fields["title"].(string); ok && v == "" {
		return appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
	}
	if v, ok := fields["content"].(string); ok && v == "" {
		return appErrors.Clone(appErrors.ErrValidation, "content must not be empty")
	}
	if v, ok := fields["category"]; ok {
		if category, isString := v.(string); !isString || !models.ValidCategory(category) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown category")
		}
	}
	if v, ok := fields["priority"]; ok {
		if priority, isString := v.(string); !isString || !validPriority(models.NoticePriority(priority)) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown priority")
		}
	}
	if v, ok := fields["status"]; ok {
		if status, isString := v.(string); !isString || !validStatus(models.NoticeStatus(status)) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown status")
		}
	}
	return nil
}

func validPriority(p models.NoticePriority) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

func validStatus(s models.NoticeStatus) bool {
	switch s {
	case models.NoticeActive, models.NoticeInactive, models.NoticeExpired:
		return true
	}
	return false
}
