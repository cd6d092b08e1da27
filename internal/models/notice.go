package models

import "time"

// NoticePriority orders notices by urgency.
type NoticePriority string

const (
	PriorityLow    NoticePriority = "low"
	PriorityMedium NoticePriority = "medium"
	PriorityHigh   NoticePriority = "high"
)

// NoticeStatus tracks the lifecycle of a posted notice.
type NoticeStatus string

const (
	NoticeActive   NoticeStatus = "active"
	NoticeInactive NoticeStatus = "inactive"
	NoticeExpired  NoticeStatus = "expired"
)

// Categories is the fixed set of notice categories.
var Categories = []string{
	"General",
	"Academic",
	"Administrative",
	"Events",
	"Emergency",
	"Maintenance",
	"Other",
}

// ValidCategory reports whether the category belongs to the fixed set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Notice is an announcement record joined with its owner's identity.
type Notice struct {
	ID        int64          `db:"id" json:"id"`
	Title     string         `db:"title" json:"title"`
	Content   string         `db:"content" json:"content"`
	Category  string         `db:"category" json:"category"`
	Priority  NoticePriority `db:"priority" json:"priority"`
	Status    NoticeStatus   `db:"status" json:"status"`
	UserID    int64          `db:"user_id" json:"user_id"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
	ExpiresAt *time.Time     `db:"expires_at" json:"expires_at,omitempty"`
	Username  *string        `db:"username" json:"username,omitempty"`
	Email     *string        `db:"email" json:"email,omitempty"`
}

// NoticeDraft carries the fields required to create a notice. Priority and
// status default to medium/active when left empty.
type NoticeDraft struct {
	Title     string         `json:"title" validate:"required"`
	Content   string         `json:"content" validate:"required"`
	Category  string         `json:"category" validate:"required,category"`
	Priority  NoticePriority `json:"priority" validate:"omitempty,priority"`
	Status    NoticeStatus   `json:"status" validate:"omitempty,noticestatus"`
	ExpiresAt *time.Time     `json:"expires_at"`
	UserID    int64          `json:"user_id" validate:"required,gt=0"`
}

// NoticeFilter captures the optional predicates of a filtered search.
// Predicates are combined conjunctively; Offset is only honoured together
// with Limit.
type NoticeFilter struct {
	Category string
	Status   NoticeStatus
	DateFrom *time.Time
	DateTo   *time.Time
	UserID   *int64
	Search   string
	Limit    *int
	Offset   *int
}

// Empty reports whether no predicate is present.
func (f NoticeFilter) Empty() bool {
	return f.Category == "" && f.Status == "" && f.DateFrom == nil &&
		f.DateTo == nil && f.UserID == nil && f.Search == "" &&
		f.Limit == nil && f.Offset == nil
}
