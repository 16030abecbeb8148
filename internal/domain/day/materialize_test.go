package day

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/interval"
	"github.com/rpggio/timebank/internal/domain/stamp"
	"github.com/stretchr/testify/require"
)

func lookup() activity.Lookup {
	return activity.LookupFrom([]activity.Activity{
		{ID: "work", Name: "Work", PointsPerHour: 100, SecondsFree: 3600},
		{ID: "sleep", Name: "Sleep", PointsPerHour: 10},
	})
}

func startAt(id, act string, ts time.Time) stamp.Stamp {
	return stamp.Stamp{ID: id, Timestamp: ts, Kind: stamp.KindStart, ActivityID: act}
}

func stopAt(id string, ts time.Time) stamp.Stamp {
	return stamp.Stamp{ID: id, Timestamp: ts, Kind: stamp.KindStop}
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestMaterializeSplitsAtMidnight(t *testing.T) {
	loc := mustLoad(t, "Europe/Berlin")
	stamps := []stamp.Stamp{
		startAt("s1", "sleep", time.Date(2024, 5, 1, 22, 0, 0, 0, loc)),
		stopAt("s2", time.Date(2024, 5, 2, 7, 0, 1, 0, loc)),
	}
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, loc)

	days, err := MaterializeAt(stamps, Range{From: "2024-05-01", To: "2024-05-02"}, loc, "u1", lookup(), now)
	require.NoError(t, err)
	require.Len(t, days, 2)

	require.Equal(t, "2024-05-02", days[0].DateKey)
	require.Equal(t, "2024-05-01", days[1].DateKey)
	require.Equal(t, int64(2*time.Hour/time.Millisecond), days[1].TotalDurationMs)
	require.Equal(t, int64(7*time.Hour/time.Millisecond), days[0].TotalDurationMs)

	last := days[1].Fragments[0]
	require.Equal(t, time.Date(2024, 5, 1, 23, 59, 59, int(999*time.Millisecond), loc).UnixMilli(), last.EndLocal.UnixMilli())
	require.Equal(t, "u1:2024-05-01", days[1].ID)
	require.False(t, days[1].IsFinalized)
}

func TestMaterializeCoverage(t *testing.T) {
	loc := mustLoad(t, "America/New_York")
	begin := time.Date(2024, 3, 8, 20, 0, 0, 0, loc)
	stamps := []stamp.Stamp{
		startAt("s1", "work", begin),
		startAt("s2", "sleep", begin.Add(30*time.Hour)),
		stopAt("s3", begin.Add(80*time.Hour)),
	}
	now := begin.Add(100 * time.Hour)

	days, err := MaterializeAt(stamps, Range{From: "2024-03-01", To: "2024-03-31"}, loc, "u1", lookup(), now)
	require.NoError(t, err)

	perInterval := make(map[string]int64)
	for _, d := range days {
		for _, f := range d.Fragments {
			require.Equal(t, d.DateKey, f.StartLocal.Format(DateLayout))
			require.Equal(t, d.DateKey, f.EndLocal.Format(DateLayout))
			perInterval[f.IntervalID] += f.DurationMs
		}
	}

	for _, iv := range interval.DeriveAt(stamps, lookup(), now) {
		require.Equal(t, iv.DurationSeconds*1000, perInterval[iv.ID], iv.Activity.ID)
	}
}

func TestMaterializeDSTDayLength(t *testing.T) {
	loc := mustLoad(t, "America/New_York")
	stamps := []stamp.Stamp{
		startAt("s1", "work", time.Date(2024, 3, 10, 0, 30, 0, 0, loc)),
		stopAt("s2", time.Date(2024, 3, 10, 5, 0, 0, 0, loc)),
		startAt("s3", "work", time.Date(2024, 11, 3, 0, 30, 0, 0, loc)),
		stopAt("s4", time.Date(2024, 11, 3, 5, 0, 0, 0, loc)),
	}
	now := time.Date(2024, 12, 1, 0, 0, 0, 0, loc)

	days, err := MaterializeAt(stamps, Range{From: "2024-03-01", To: "2024-11-30"}, loc, "u1", lookup(), now)
	require.NoError(t, err)
	require.Len(t, days, 2)

	fall, spring := days[0], days[1]
	require.Equal(t, int64(25*time.Hour/time.Millisecond), fall.DayLengthMs)
	require.Equal(t, -240, fall.TimezoneOffsetStart)
	require.Equal(t, -300, fall.TimezoneOffsetEnd)
	require.Equal(t, int64(23*time.Hour/time.Millisecond), spring.DayLengthMs)
	require.Equal(t, -300, spring.TimezoneOffsetStart)
	require.Equal(t, -240, spring.TimezoneOffsetEnd)

	// 00:30 to 04:59:59 local spans one hour less in spring and one more in fall.
	require.Equal(t, int64((3*time.Hour+29*time.Minute+59*time.Second)/time.Millisecond), spring.TotalDurationMs)
	require.Equal(t, int64((5*time.Hour+29*time.Minute+59*time.Second)/time.Millisecond), fall.TotalDurationMs)
}

func TestMaterializeIncludesIntervalsStartedBeforeRange(t *testing.T) {
	stamps := []stamp.Stamp{
		startAt("s1", "work", time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)),
		stopAt("s2", time.Date(2024, 1, 3, 2, 0, 1, 0, time.UTC)),
	}

	days, err := MaterializeAt(stamps, Range{From: "2024-01-03", To: "2024-01-03"}, time.UTC, "u1", lookup(), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, int64(2*time.Hour/time.Millisecond), days[0].TotalDurationMs)
}

func TestMaterializeClipsOngoingToNow(t *testing.T) {
	stamps := []stamp.Stamp{startAt("s1", "sleep", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))}
	now := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)

	days, err := MaterializeAt(stamps, Range{From: "2024-01-01", To: "2024-01-07"}, time.UTC, "u1", lookup(), now)
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, int64(3*time.Hour/time.Millisecond), days[0].TotalDurationMs)
	require.InDelta(t, 30.0, days[0].TotalPoints, 1e-9)
}

func TestMaterializeAggregatesPerActivity(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stamps := []stamp.Stamp{
		startAt("s1", "work", day.Add(8*time.Hour)),
		startAt("s2", "sleep", day.Add(9*time.Hour)),
		startAt("s3", "work", day.Add(10*time.Hour)),
		stopAt("s4", day.Add(11*time.Hour+time.Second)),
	}

	days, err := MaterializeAt(stamps, Range{From: "2024-01-01", To: "2024-01-01"}, time.UTC, "u1", lookup(), day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, days, 1)

	totals := days[0].ActivityTotals
	require.Len(t, totals, 2)
	require.Equal(t, "work", totals[0].ActivityID)
	require.Equal(t, int64((2*time.Hour-time.Second)/time.Millisecond), totals[0].DurationMs)
	require.Equal(t, "sleep", totals[1].ActivityID)
	require.Len(t, days[0].Fragments, 3)
}

func TestMaterializeRejectsBadRange(t *testing.T) {
	_, err := MaterializeAt(nil, Range{From: "2024-13-01", To: "2024-01-01"}, time.UTC, "u1", lookup(), time.Now())
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = MaterializeAt(nil, Range{From: "2024-02-01", To: "2024-01-01"}, time.UTC, "u1", lookup(), time.Now())
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestMaterializeEmpty(t *testing.T) {
	days, err := MaterializeAt(nil, Range{From: "2024-01-01", To: "2024-01-31"}, time.UTC, "u1", lookup(), time.Now())
	require.NoError(t, err)
	require.Empty(t, days)
}

func TestFillRange(t *testing.T) {
	stamps := []stamp.Stamp{
		startAt("s1", "work", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
		stopAt("s2", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)),
	}
	rng := Range{From: "2024-01-01", To: "2024-01-04"}
	days, err := MaterializeAt(stamps, rng, time.UTC, "u1", lookup(), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	filled, err := FillRange(days, rng, "u1", time.UTC)
	require.NoError(t, err)
	require.Len(t, filled, 4)

	keys := make([]string, 0, len(filled))
	for _, d := range filled {
		keys = append(keys, d.DateKey)
	}
	require.Equal(t, []string{"2024-01-04", "2024-01-03", "2024-01-02", "2024-01-01"}, keys)
	require.False(t, filled[2].Empty())
	require.True(t, filled[0].Empty())
	require.NotNil(t, filled[0].ActivityTotals)
	require.Equal(t, int64(0), filled[0].TotalDurationMs)
}

func TestSplitAtMidnightSingleDay(t *testing.T) {
	from := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	got := SplitAtMidnight("iv", activity.Info{ID: "work"}, from, to, time.UTC)
	require.Len(t, got, 1)
	require.Equal(t, to, got[0].EndLocal)
	require.Equal(t, int64(time.Hour/time.Millisecond), got[0].DurationMs)
}

func TestSplitAtMidnightEmptySpan(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	require.Empty(t, SplitAtMidnight("iv", activity.Info{ID: "work"}, at, at, time.UTC))
}

// Havana springs forward at 00:00, so 2023-03-12 starts at 01:00 CDT.
func TestSplitAtMidnightSkippedMidnight(t *testing.T) {
	loc := mustLoad(t, "America/Havana")
	from := time.Date(2023, 3, 11, 20, 0, 0, 0, time.UTC)
	to := time.Date(2023, 3, 12, 20, 0, 0, 0, time.UTC)

	got := SplitAtMidnight("iv", activity.Info{ID: "work"}, from, to, loc)
	require.Len(t, got, 2)
	require.Equal(t, "2023-03-11", got[0].StartLocal.Format(DateLayout))
	require.Equal(t, "2023-03-12", got[1].StartLocal.Format(DateLayout))
	require.Equal(t, time.Date(2023, 3, 12, 5, 0, 0, 0, time.UTC), got[1].StartLocal.UTC())
	require.Equal(t, int64(9*time.Hour/time.Millisecond), got[0].DurationMs)
	require.Equal(t, int64(15*time.Hour/time.Millisecond), got[1].DurationMs)
	require.Equal(t, to.Sub(from).Milliseconds(), got[0].DurationMs+got[1].DurationMs)
}

func TestSplitAtMidnightSkippedMidnightSaoPaulo(t *testing.T) {
	loc := mustLoad(t, "America/Sao_Paulo")
	from := time.Date(2018, 11, 3, 12, 0, 0, 0, time.UTC)
	to := time.Date(2018, 11, 5, 12, 0, 0, 0, time.UTC)

	got := SplitAtMidnight("iv", activity.Info{ID: "work"}, from, to, loc)
	require.Len(t, got, 3)
	var total int64
	for _, f := range got {
		total += f.DurationMs
	}
	require.Equal(t, to.Sub(from).Milliseconds(), total)
}

func TestFillRangeSkippedMidnight(t *testing.T) {
	loc := mustLoad(t, "America/Havana")
	rng := Range{From: "2023-03-11", To: "2023-03-13"}

	filled, err := FillRange(nil, rng, "u1", loc)
	require.NoError(t, err)

	keys := make([]string, 0, len(filled))
	lengths := make([]int64, 0, len(filled))
	for _, d := range filled {
		keys = append(keys, d.DateKey)
		lengths = append(lengths, d.DayLengthMs)
	}
	hour := int64(time.Hour / time.Millisecond)
	require.Equal(t, []string{"2023-03-13", "2023-03-12", "2023-03-11"}, keys)
	require.Equal(t, []int64{24 * hour, 23 * hour, 24 * hour}, lengths)
	require.Equal(t, filled[1].DayStartUTC, filled[2].DayEndUTC)
	require.Equal(t, filled[0].DayStartUTC, filled[1].DayEndUTC)
}

func TestEmptyDaySkippedMidnight(t *testing.T) {
	loc := mustLoad(t, "America/Havana")

	d := EmptyDay("2023-03-12", "u1", loc)
	require.Equal(t, time.Date(2023, 3, 12, 5, 0, 0, 0, time.UTC), d.DayStartUTC)
	require.Equal(t, time.Date(2023, 3, 13, 4, 0, 0, 0, time.UTC), d.DayEndUTC)
	require.Equal(t, int64(23*time.Hour/time.Millisecond), d.DayLengthMs)
}

func TestMaterializeSkippedMidnight(t *testing.T) {
	loc := mustLoad(t, "America/Havana")
	stamps := []stamp.Stamp{
		startAt("s1", "sleep", time.Date(2023, 3, 11, 20, 0, 0, 0, time.UTC)),
		stopAt("s2", time.Date(2023, 3, 12, 20, 0, 1, 0, time.UTC)),
	}

	days, err := MaterializeAt(stamps, Range{From: "2023-03-11", To: "2023-03-13"}, loc, "u1", lookup(), time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Equal(t, "2023-03-12", days[0].DateKey)
	require.Equal(t, int64(15*time.Hour/time.Millisecond), days[0].TotalDurationMs)
	require.Equal(t, int64(9*time.Hour/time.Millisecond), days[1].TotalDurationMs)
}

func TestMaterializeClipsLongIntervalToRange(t *testing.T) {
	stamps := []stamp.Stamp{startAt("s1", "sleep", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	days, err := MaterializeAt(stamps, Range{From: "2024-05-10", To: "2024-05-10"}, time.UTC, "u1", lookup(), now)
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Len(t, days[0].Fragments, 1)
	require.Equal(t, days[0].DayStartUTC, days[0].Fragments[0].StartLocal.UTC())
	require.Equal(t, int64(24*time.Hour/time.Millisecond), days[0].TotalDurationMs)
}
