package day

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/interval"
	"github.com/rpggio/timebank/internal/domain/points"
	"github.com/rpggio/timebank/internal/domain/stamp"
)

// Range is an inclusive span of local dates.
type Range struct {
	From string
	To   string
}

// ParseRange validates both date keys and their order.
// Both are the first instants of their dates in loc.
func ParseRange(from, to string, loc *time.Location) (start, end time.Time, err error) {
	start, err = parseDate(from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from %q", ErrInvalidRange, from)
	}
	end, err = parseDate(to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to %q", ErrInvalidRange, to)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, from, to)
	}
	return start, end, nil
}

// parseDate resolves a date key to the first instant of that date in loc.
func parseDate(key string, loc *time.Location) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, err
	}
	return startOfDate(d.Year(), d.Month(), d.Day(), loc), nil
}

// Materialize builds the non-empty days of the range, measuring ongoing
// intervals against the wall clock.
func Materialize(stamps []stamp.Stamp, rng Range, loc *time.Location, userID string, lookup activity.Lookup) ([]Day, error) {
	return MaterializeAt(stamps, rng, loc, userID, lookup, time.Now())
}

// MaterializeAt builds the days of rng that have tracked time, newest date
// first. Intervals are derived from the full stamp log so that spans which
// started before the range still contribute their in-range part. Each
// interval is clipped to the range before splitting; ongoing ones end at now.
func MaterializeAt(stamps []stamp.Stamp, rng Range, loc *time.Location, userID string, lookup activity.Lookup, now time.Time) ([]Day, error) {
	if loc == nil {
		loc = time.UTC
	}
	first, last, err := ParseRange(rng.From, rng.To, loc)
	if err != nil {
		return nil, err
	}
	rangeStart := first
	rangeEnd := nextMidnight(last, loc)
	fromKey := first.Format(DateLayout)
	toKey := last.Format(DateLayout)

	byDate := make(map[string][]Fragment)
	for _, iv := range interval.DeriveAt(stamps, lookup, now) {
		from, to := iv.From, iv.EndAt(now)
		if !from.Before(rangeEnd) || to.Before(rangeStart) {
			continue
		}
		if from.Before(rangeStart) {
			from = rangeStart
		}
		if to.After(rangeEnd) {
			to = rangeEnd
		}
		for _, f := range SplitAtMidnight(iv.ID, iv.Activity, from, to, loc) {
			key := f.StartLocal.Format(DateLayout)
			if key < fromKey || key > toKey {
				continue
			}
			byDate[key] = append(byDate[key], f)
		}
	}

	days := make([]Day, 0, len(byDate))
	for key, fragments := range byDate {
		d := EmptyDay(key, userID, loc)
		sort.SliceStable(fragments, func(a, b int) bool {
			return fragments[a].StartLocal.Before(fragments[b].StartLocal)
		})
		d.Fragments = fragments

		items := make([]points.Item, 0, len(fragments))
		for _, f := range fragments {
			items = append(items, points.Item{ActivityID: f.ActivityID, DurationMs: f.DurationMs})
		}
		d.ActivityTotals = points.ActivityTotals(items, lookup)
		d.TotalDurationMs, d.TotalPoints = points.Totals(d.ActivityTotals)
		days = append(days, d)
	}

	sort.Slice(days, func(a, b int) bool {
		return days[a].DateKey > days[b].DateKey
	})
	return days, nil
}

// EmptyDay is the record of a date with nothing tracked. dateKey must be a
// valid date; an unparsable key yields a day starting at the zero time.
func EmptyDay(dateKey, userID string, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	start, _ := parseDate(dateKey, loc)
	end := nextMidnight(start, loc)
	_, offStart := start.Zone()
	_, offEnd := end.Zone()

	return Day{
		ID:                  userID + ":" + dateKey,
		UserID:              userID,
		Timezone:            loc.String(),
		DateKey:             dateKey,
		DayStartUTC:         start.UTC(),
		DayEndUTC:           end.UTC(),
		DayLengthMs:         end.Sub(start).Milliseconds(),
		TimezoneOffsetStart: offStart / 60,
		TimezoneOffsetEnd:   offEnd / 60,
		Fragments:           []Fragment{},
		ActivityTotals:      []points.ActivityTotal{},
	}
}

// FillRange returns one day per date of rng, newest first, taking
// materialized days where present and empty days elsewhere.
func FillRange(days []Day, rng Range, userID string, loc *time.Location) ([]Day, error) {
	if loc == nil {
		loc = time.UTC
	}
	first, last, err := ParseRange(rng.From, rng.To, loc)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]Day, len(days))
	for _, d := range days {
		byKey[d.DateKey] = d
	}

	filled := make([]Day, 0)
	for cur := last; !cur.Before(first); cur = prevDate(cur, loc) {
		key := cur.Format(DateLayout)
		if d, ok := byKey[key]; ok {
			filled = append(filled, d)
			continue
		}
		filled = append(filled, EmptyDay(key, userID, loc))
	}
	return filled, nil
}

// RangeDays is the number of dates rng covers.
func RangeDays(rng Range) (int, error) {
	first, last, err := ParseRange(rng.From, rng.To, time.UTC)
	if err != nil {
		return 0, err
	}
	return int(last.Sub(first).Hours()/24) + 1, nil
}
