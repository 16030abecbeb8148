// Package day materializes derived intervals into per-calendar-day records in
// a user's timezone.
package day

import (
	"time"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/points"
)

// DateLayout is the layout of a day's date key.
const DateLayout = "2006-01-02"

// Fragment is the part of an interval that falls within one local calendar
// day. It never crosses a local midnight.
type Fragment struct {
	IntervalID string        `json:"interval_id"`
	ActivityID string        `json:"activity_id"`
	Activity   activity.Info `json:"activity"`
	StartLocal time.Time     `json:"start_local"`
	EndLocal   time.Time     `json:"end_local"`
	DurationMs int64         `json:"duration_ms"`
}

// Day aggregates every fragment of one local date.
type Day struct {
	ID                  string                 `json:"id"`
	UserID              string                 `json:"user"`
	Timezone            string                 `json:"timezone"`
	DateKey             string                 `json:"date_key"`
	DayStartUTC         time.Time              `json:"day_start_utc"`
	DayEndUTC           time.Time              `json:"day_end_utc"`
	DayLengthMs         int64                  `json:"day_length_ms"`
	TimezoneOffsetStart int                    `json:"timezone_offset_start"`
	TimezoneOffsetEnd   int                    `json:"timezone_offset_end"`
	Fragments           []Fragment             `json:"intervals"`
	ActivityTotals      []points.ActivityTotal `json:"activity_totals"`
	TotalDurationMs     int64                  `json:"total_duration_ms"`
	TotalPoints         float64                `json:"total_points"`
	IsFinalized         bool                   `json:"is_finalized"`
}

// Empty reports whether nothing was tracked on the day.
func (d Day) Empty() bool {
	return len(d.Fragments) == 0
}
