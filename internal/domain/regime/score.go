package regime

import (
	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/points"
)

// Metrics is a template's aggregate score.
type Metrics struct {
	TotalPoints     float64                `json:"total_points"`
	TotalDurationMs int64                  `json:"total_duration_ms"`
	ActivityTotals  []points.ActivityTotal `json:"activity_totals"`
}

// Score aggregates intervals per activity. A positive DurationMs already on
// an interval is used as is; otherwise it is computed from the clock times.
// Intervals of unknown activities contribute nothing.
func Score(intervals []Interval, lookup activity.Lookup) Metrics {
	items := make([]points.Item, 0, len(intervals))
	for _, iv := range intervals {
		d := iv.DurationMs
		if d <= 0 {
			d = IntervalDuration(iv.StartTime, iv.EndTime)
		}
		items = append(items, points.Item{ActivityID: iv.ActivityID, DurationMs: d})
	}

	totals := points.ActivityTotals(items, lookup)
	durationMs, pts := points.Totals(totals)
	return Metrics{TotalPoints: pts, TotalDurationMs: durationMs, ActivityTotals: totals}
}
