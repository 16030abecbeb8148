// Package points converts tracked durations into scores.
//
// A duration is worth (billable seconds / 3600) * points per hour, where the
// billable seconds are the duration minus the activity's free allowance,
// floored at zero. Values are never rounded here.
package points

import (
	"math"

	"github.com/rpggio/timebank/internal/domain/activity"
)

// Points scores a single duration.
func Points(durationMs int64, pointsPerHour float64, freeSeconds int64) float64 {
	billable := math.Max(0, float64(durationMs)/1000-float64(freeSeconds))
	return (billable / 3600) * pointsPerHour
}

// Item is one (activity, duration) pair fed into an aggregate.
type Item struct {
	ActivityID string
	DurationMs int64
}

// ActivityTotal is the aggregate of every item of one activity.
// PointsPerHourSnapshot is copied from the activity when the total is built
// so that later rate edits leave it unchanged.
type ActivityTotal struct {
	ActivityID            string  `json:"activity_id"`
	DurationMs            int64   `json:"duration_ms"`
	PointsTotal           float64 `json:"points_total"`
	PointsPerHourSnapshot float64 `json:"points_per_hour_snapshot"`
}

// ActivityTotals groups items by activity ID, sums their durations and scores
// each group once. Items whose activity cannot be resolved are skipped.
// Totals come back in the order activities were first seen.
func ActivityTotals(items []Item, lookup activity.Lookup) []ActivityTotal {
	type group struct {
		durationMs int64
		info       activity.Info
	}

	order := make([]string, 0)
	groups := make(map[string]*group)
	for _, item := range items {
		g, ok := groups[item.ActivityID]
		if !ok {
			info, found := lookup(item.ActivityID)
			if !found {
				continue
			}
			g = &group{info: info}
			groups[item.ActivityID] = g
			order = append(order, item.ActivityID)
		}
		g.durationMs += item.DurationMs
	}

	totals := make([]ActivityTotal, 0, len(order))
	for _, id := range order {
		g := groups[id]
		totals = append(totals, ActivityTotal{
			ActivityID:            id,
			DurationMs:            g.durationMs,
			PointsTotal:           Points(g.durationMs, g.info.PointsPerHour, g.info.SecondsFree),
			PointsPerHourSnapshot: g.info.PointsPerHour,
		})
	}
	return totals
}

// Totals sums duration and points over activity totals.
func Totals(totals []ActivityTotal) (durationMs int64, pts float64) {
	for _, t := range totals {
		durationMs += t.DurationMs
		pts += t.PointsTotal
	}
	return durationMs, pts
}
