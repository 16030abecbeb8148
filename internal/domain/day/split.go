package day

import (
	"time"

	"github.com/rpggio/timebank/internal/domain/activity"
)

// SplitAtMidnight cuts [from, to] into one fragment per local date in loc.
//
// A fragment that stops at a midnight reports its EndLocal as one millisecond
// before that midnight, but its duration runs up to the midnight itself, so
// the fragment durations always add up to to - from.
func SplitAtMidnight(intervalID string, info activity.Info, from, to time.Time, loc *time.Location) []Fragment {
	fragments := make([]Fragment, 0, 1)
	cur := from.In(loc)
	end := to.In(loc)

	for cur.Before(end) {
		next := nextMidnight(cur, loc)
		if !next.After(cur) {
			next = end
		}
		stop := end
		endLocal := end
		if next.Before(end) {
			stop = next
			endLocal = next.Add(-time.Millisecond)
		}

		fragments = append(fragments, Fragment{
			IntervalID: intervalID,
			ActivityID: info.ID,
			Activity:   info,
			StartLocal: cur,
			EndLocal:   endLocal,
			DurationMs: stop.Sub(cur).Milliseconds(),
		})
		cur = next
	}
	return fragments
}

// nextMidnight returns the first instant of the local date after t's.
func nextMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return startOfDate(y, m, d+1, loc)
}

// prevDate returns the first instant of the local date before t's.
func prevDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return startOfDate(y, m, d-1, loc)
}

// startOfDate returns the first instant of the local date y-m-d, normalized
// like time.Date. Where a DST change skips 00:00 that is the transition
// instant, since time.Date may resolve the missing midnight to the evening
// before.
func startOfDate(y int, m time.Month, d int, loc *time.Location) time.Time {
	want := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	ty, tm, td := t.Date()
	if time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Before(want) {
		if _, end := t.ZoneBounds(); !end.IsZero() {
			t = end
		}
	}
	return t
}
