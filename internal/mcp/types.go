package mcp

import (
	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/day"
	"github.com/rpggio/timebank/internal/domain/interval"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/domain/points"
	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/domain/stamp"
)

type EmptyParams struct{}

type CreateActivityParams struct {
	Name          string  `json:"name" jsonschema:"activity display name"`
	Color         string  `json:"color,omitempty" jsonschema:"display color, e.g. #4a90d9"`
	Icon          string  `json:"icon,omitempty" jsonschema:"display icon"`
	PointsPerHour float64 `json:"points_per_hour" jsonschema:"points earned per billable hour; negative rates penalize"`
	SecondsFree   int64   `json:"seconds_free,omitempty" jsonschema:"leading seconds of each aggregate that earn nothing"`
}

type StartActivityParams struct {
	ActivityID string `json:"activity_id" jsonschema:"activity to start"`
}

type ListStampsParams struct {
	Since  string `json:"since,omitempty" jsonschema:"RFC3339 lower bound (inclusive)"`
	Until  string `json:"until,omitempty" jsonschema:"RFC3339 upper bound (exclusive)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of stamps"`
	Offset int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type ListDaysParams struct {
	From string `json:"from" jsonschema:"first local date, YYYY-MM-DD"`
	To   string `json:"to" jsonschema:"last local date, YYYY-MM-DD"`
	Fill bool   `json:"fill,omitempty" jsonschema:"include empty days so every date in the range is present"`
}

type RegimeIntervalParams struct {
	IntervalID string `json:"interval_id,omitempty"`
	ActivityID string `json:"activity_id" jsonschema:"activity planned for this slot"`
	StartTime  string `json:"start_time" jsonschema:"HH:mm"`
	EndTime    string `json:"end_time" jsonschema:"HH:mm; at or before start_time wraps past midnight"`
}

type SaveRegimeParams struct {
	ID        string                 `json:"id,omitempty" jsonschema:"regime to update; omit to create"`
	Name      string                 `json:"name" jsonschema:"regime display name"`
	Icon      string                 `json:"icon,omitempty"`
	IsHoliday bool                   `json:"is_holiday,omitempty" jsonschema:"holiday regimes carry no intervals and score zero"`
	Intervals []RegimeIntervalParams `json:"intervals,omitempty"`
}

type ValidateRegimeParams struct {
	Intervals []RegimeIntervalParams `json:"intervals"`
}

type GetRecentChangesParams struct {
	Entity string `json:"entity,omitempty" jsonschema:"activity, stamp or regime"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
}

type ActivitiesResponse struct {
	Activities []activity.Activity `json:"activities"`
}

type StampsResponse struct {
	Stamps []stamp.Stamp `json:"stamps"`
}

type IntervalsResponse struct {
	Intervals []interval.Interval `json:"intervals"`
}

type CurrentResponse struct {
	Current *interval.Interval `json:"current"`
}

type DaysResponse struct {
	Days []day.Day `json:"days"`
}

type RegimesResponse struct {
	Regimes []regime.Regime `json:"regimes"`
}

type ValidateRegimeResponse struct {
	Valid           bool                   `json:"valid"`
	Error           string                 `json:"error,omitempty"`
	TotalPoints     float64                `json:"total_points"`
	TotalDurationMs int64                  `json:"total_duration_ms"`
	ActivityTotals  []points.ActivityTotal `json:"activity_totals,omitempty"`
}

type JournalResponse struct {
	Entries []journal.Entry `json:"entries"`
}

func toRegimeIntervals(params []RegimeIntervalParams) []regime.Interval {
	out := make([]regime.Interval, 0, len(params))
	for _, p := range params {
		out = append(out, regime.Interval{
			IntervalID: p.IntervalID,
			ActivityID: p.ActivityID,
			StartTime:  p.StartTime,
			EndTime:    p.EndTime,
		})
	}
	return out
}
