// Package interval rebuilds continuous activity spans from a user's stamp log.
package interval

import (
	"encoding/json"
	"time"

	"github.com/rpggio/timebank/internal/domain/activity"
)

// Extent says how an interval ends: Closed by a later stamp, or Ongoing.
type Extent interface {
	extent()
}

// Closed is an interval terminated by a later stamp. To is one second before
// that stamp.
type Closed struct {
	To time.Time
}

// Ongoing is an interval nothing has terminated yet.
type Ongoing struct{}

func (Closed) extent()  {}
func (Ongoing) extent() {}

// Interval is a derived span of one activity. It is never persisted; every
// query rebuilds it from stamps.
type Interval struct {
	ID       string
	From     time.Time
	Extent   Extent
	Activity activity.Info

	// DurationSeconds is fixed for closed intervals. For ongoing ones it is
	// the duration as of the derivation that produced the value.
	DurationSeconds int64
}

// Ongoing reports whether no stamp has closed the interval yet.
func (iv Interval) Ongoing() bool {
	_, ok := iv.Extent.(Closed)
	return !ok
}

// To returns the closing instant, or false for an ongoing interval.
func (iv Interval) To() (time.Time, bool) {
	c, ok := iv.Extent.(Closed)
	return c.To, ok
}

// EndAt is the instant the interval covers up to when observed at now.
func (iv Interval) EndAt(now time.Time) time.Time {
	if to, ok := iv.To(); ok {
		return to
	}
	return now
}

// DurationAt recomputes the whole-second duration as observed at now.
func (iv Interval) DurationAt(now time.Time) int64 {
	return floorSeconds(iv.EndAt(now).Sub(iv.From))
}

type intervalJSON struct {
	ID       string        `json:"id"`
	FromDate time.Time     `json:"from_date"`
	ToDate   *time.Time    `json:"to_date"`
	Duration int64         `json:"duration"`
	Activity activity.Info `json:"activity"`
}

// MarshalJSON renders ongoing intervals with a null to_date.
func (iv Interval) MarshalJSON() ([]byte, error) {
	out := intervalJSON{
		ID:       iv.ID,
		FromDate: iv.From.UTC(),
		Duration: iv.DurationSeconds,
		Activity: iv.Activity,
	}
	if to, ok := iv.To(); ok {
		to = to.UTC()
		out.ToDate = &to
	}
	return json.Marshal(out)
}

func floorSeconds(d time.Duration) int64 {
	s := int64(d / time.Second)
	if d < 0 && d%time.Second != 0 {
		s--
	}
	return s
}
