package regime

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

const minutesPerDay = 24 * 60

// ValidationResult is the outcome of checking a template's intervals.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateIntervals checks clock formats and pairwise overlap.
//
// Overlap is judged on the intervals sorted by start time: each is compared
// with its successor only, and an overlap is an end string greater than the
// successor's start string. Wraparound intervals take part like any other,
// so 22:00-01:00 collides with a predecessor ending after 22:00, but its
// "01:00" end never collides with a successor and nothing is checked across
// midnight. Intervals sharing a start time are never reported.
func ValidateIntervals(intervals []Interval) ValidationResult {
	for _, iv := range intervals {
		if !clockPattern.MatchString(iv.StartTime) || !clockPattern.MatchString(iv.EndTime) {
			return ValidationResult{Error: fmt.Sprintf("invalid time format in %s-%s, use HH:mm (24-hour)", iv.StartTime, iv.EndTime)}
		}
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].StartTime < sorted[b].StartTime
	})

	for i := 0; i+1 < len(sorted); i++ {
		cur, next := sorted[i], sorted[i+1]
		if cur.EndTime > next.StartTime && cur.StartTime != next.StartTime {
			return ValidationResult{Error: fmt.Sprintf("intervals %s-%s and %s-%s overlap",
				cur.StartTime, cur.EndTime, next.StartTime, next.EndTime)}
		}
	}
	return ValidationResult{Valid: true}
}

// IntervalDuration is the length of a time-of-day span in milliseconds. An
// end at or before the start wraps to the next day, so equal times span a
// full day. Both arguments must already be valid HH:mm.
func IntervalDuration(start, end string) int64 {
	s := clockMinutes(start)
	e := clockMinutes(end)
	if e <= s {
		e += minutesPerDay
	}
	return int64(e-s) * 60 * 1000
}

func clockMinutes(hhmm string) int {
	m := clockPattern.FindStringSubmatch(hhmm)
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	return h*60 + mins
}
