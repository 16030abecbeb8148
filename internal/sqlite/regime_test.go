package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestRegimeRepository_RoundTripsIntervals(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	repo := NewRegimeRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	reg := &regime.Regime{
		ID:   "r1",
		Name: "Weekday",
		Intervals: []regime.Interval{
			{IntervalID: "i1", ActivityID: "sleep", StartTime: "23:00", EndTime: "07:00", DurationMs: 8 * 3_600_000},
		},
		TotalPoints:     80,
		TotalDurationMs: 8 * 3_600_000,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, repo.Create(ctx, "u1", reg))

	got, err := repo.Get(ctx, "u1", "r1")
	require.NoError(t, err)
	require.Equal(t, reg.Intervals, got.Intervals)
	require.Equal(t, 80.0, got.TotalPoints)
	require.False(t, got.IsHoliday)

	got.IsHoliday = true
	got.Intervals = nil
	got.TotalPoints = 0
	require.NoError(t, repo.Update(ctx, "u1", got))

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].IsHoliday)
	require.NotNil(t, list[0].Intervals)
	require.Empty(t, list[0].Intervals)

	require.NoError(t, repo.Delete(ctx, "u1", "r1"))
	_, err = repo.Get(ctx, "u1", "r1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
