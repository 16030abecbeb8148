// Package regime handles day templates: named sets of time-of-day intervals
// scored with the same rates as tracked days.
package regime

import "time"

// Interval is a time-of-day span on a 24 hour template. An EndTime at or
// before StartTime wraps past midnight.
type Interval struct {
	IntervalID string `json:"interval_id"`
	ActivityID string `json:"activity_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	DurationMs int64  `json:"duration_ms"`
}

// Regime is a user's day template.
type Regime struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user"`
	Icon            string     `json:"icon"`
	Name            string     `json:"name"`
	IsHoliday       bool       `json:"is_holiday"`
	Intervals       []Interval `json:"intervals"`
	TotalPoints     float64    `json:"total_points"`
	TotalDurationMs int64      `json:"total_duration_ms"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
