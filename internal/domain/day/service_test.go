package day

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/stamp"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	stamps []stamp.Stamp
}

func (s stubLoader) Load(context.Context, string) ([]stamp.Stamp, activity.Lookup, error) {
	return s.stamps, lookup(), nil
}

type fixedLocation struct {
	loc *time.Location
}

func (f fixedLocation) Location(context.Context, string) (*time.Location, error) {
	return f.loc, nil
}

type dayCounter struct {
	n int
}

func (d *dayCounter) ObserveDays(n int) { d.n += n }

func newTestService(t *testing.T, maxDays int) (*Service, *dayCounter) {
	t.Helper()
	counter := &dayCounter{}
	svc := NewService(stubLoader{stamps: []stamp.Stamp{
		startAt("s1", "work", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
		stopAt("s2", time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)),
	}}, fixedLocation{loc: time.UTC}, counter, maxDays, nil)
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }
	return svc, counter
}

func TestServiceList(t *testing.T) {
	svc, counter := newTestService(t, 0)
	ctx := context.Background()

	days, err := svc.List(ctx, "u1", ListOptions{From: "2024-01-01", To: "2024-01-03"})
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, 1, counter.n)

	filled, err := svc.List(ctx, "u1", ListOptions{From: "2024-01-01", To: "2024-01-03", Fill: true})
	require.NoError(t, err)
	require.Len(t, filled, 3)
}

func TestServiceRangeLimit(t *testing.T) {
	svc, _ := newTestService(t, 7)

	_, err := svc.List(context.Background(), "u1", ListOptions{From: "2024-01-01", To: "2024-01-08"})
	require.ErrorIs(t, err, ErrRangeTooLarge)

	_, err = svc.List(context.Background(), "u1", ListOptions{From: "2024-01-01", To: "2024-01-07"})
	require.NoError(t, err)
}

func TestServiceGet(t *testing.T) {
	svc, _ := newTestService(t, 0)

	d, err := svc.Get(context.Background(), "u1", "2024-01-02")
	require.NoError(t, err)
	require.Equal(t, int64(3*time.Hour/time.Millisecond-1000), d.TotalDurationMs)

	empty, err := svc.Get(context.Background(), "u1", "2024-01-05")
	require.NoError(t, err)
	require.True(t, empty.Empty())

	_, err = svc.Get(context.Background(), "u1", "yesterday")
	require.ErrorIs(t, err, ErrInvalidRange)
}
