package interval

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/stamp"
)

// NoiseWindow is how close a following stamp must be to an opening start to
// count as noise rather than a real transition.
const NoiseWindow = 5 * time.Second

// idSpace namespaces interval IDs so the same opening stamp always yields the
// same interval ID.
var idSpace = uuid.MustParse("5f0c1d52-6a4e-4c55-9d8b-3f2a7f1e8c10")

// Derive rebuilds intervals from stamps, measuring ongoing intervals against
// the wall clock.
func Derive(stamps []stamp.Stamp, lookup activity.Lookup) []Interval {
	return DeriveAt(stamps, lookup, time.Now())
}

// DeriveAt rebuilds intervals from stamps in any order, newest first by From.
//
// A start stamp opens an interval. Scanning forward from it:
//   - a stamp of the same activity within NoiseWindow is noise and skipped;
//   - any other stamp within NoiseWindow invalidates the opening start;
//   - a later stamp of the same activity is a repeated start and skipped;
//   - anything else closes the interval one second before its timestamp.
//
// The closing stamp is then considered as an opener itself. Starts whose
// activity cannot be resolved are ignored, as are stops with nothing open.
func DeriveAt(stamps []stamp.Stamp, lookup activity.Lookup, now time.Time) []Interval {
	sorted := make([]stamp.Stamp, len(stamps))
	copy(sorted, stamps)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Timestamp.Before(sorted[b].Timestamp)
	})

	intervals := make([]Interval, 0)
	for i := 0; i < len(sorted); i++ {
		open := sorted[i]
		if open.Kind != stamp.KindStart || open.ActivityID == "" {
			continue
		}
		info, ok := lookup(open.ActivityID)
		if !ok {
			continue
		}

		end, valid := findEnd(sorted, i)
		if !valid {
			continue
		}

		iv := Interval{
			ID:       uuid.NewSHA1(idSpace, []byte(open.ID)).String(),
			From:     open.Timestamp,
			Activity: info,
		}
		if end < len(sorted) {
			to := sorted[end].Timestamp.Add(-time.Second)
			iv.Extent = Closed{To: to}
			iv.DurationSeconds = floorSeconds(to.Sub(open.Timestamp))
		} else {
			iv.Extent = Ongoing{}
			iv.DurationSeconds = floorSeconds(now.Sub(open.Timestamp))
		}
		intervals = append(intervals, iv)

		// Resume at the closing stamp; the loop increment lands on it.
		i = end - 1
	}

	sort.SliceStable(intervals, func(a, b int) bool {
		return intervals[a].From.After(intervals[b].From)
	})
	return intervals
}

// findEnd scans forward from the start at index i and returns the index of
// the stamp that closes it, or len(sorted) if none does. valid is false when
// the opening start is invalidated by the noise rule.
func findEnd(sorted []stamp.Stamp, i int) (end int, valid bool) {
	open := sorted[i]
	for j := i + 1; j < len(sorted); j++ {
		next := sorted[j]
		sameActivity := next.ActivityID == open.ActivityID
		if next.Timestamp.Sub(open.Timestamp) < NoiseWindow {
			if sameActivity {
				continue
			}
			return j, false
		}
		if sameActivity {
			continue
		}
		return j, true
	}
	return len(sorted), true
}
