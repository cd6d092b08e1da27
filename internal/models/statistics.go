package models

import "time"

// GroupCount is a single bucket of a grouped aggregate.
type GroupCount struct {
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

// StatisticsSnapshot is an on-demand aggregate over all notices. ByPriority
// is always the full [high, medium, low] enumeration; the other groupings
// omit empty groups and are ordered by descending count.
type StatisticsSnapshot struct {
	TotalNotices  int          `json:"total_notices"`
	RecentNotices int          `json:"recent_notices"`
	ByCategory    []GroupCount `json:"by_category"`
	ByPriority    []GroupCount `json:"by_priority"`
	ByStatus      []GroupCount `json:"by_status"`
	GeneratedAt   time.Time    `json:"generated_at"`
}
