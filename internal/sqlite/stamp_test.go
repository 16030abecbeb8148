package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/timebank/internal/domain/stamp"
	"github.com/rpggio/timebank/internal/repository"
	"github.com/stretchr/testify/require"
)

var stampBase = time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)

func TestStampRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	repo := NewStampRepository(db)

	st := &stamp.Stamp{ID: "s1", Timestamp: stampBase, Kind: stamp.KindStart, ActivityID: "a1"}
	require.NoError(t, repo.Create(ctx, "u1", st))

	got, err := repo.Get(ctx, "u1", "s1")
	require.NoError(t, err)
	require.True(t, stampBase.Equal(got.Timestamp))
	require.Equal(t, stamp.KindStart, got.Kind)
	require.Equal(t, "a1", got.ActivityID)

	got.Kind = stamp.KindStop
	got.ActivityID = ""
	require.NoError(t, repo.Update(ctx, "u1", got))
	got, err = repo.Get(ctx, "u1", "s1")
	require.NoError(t, err)
	require.Equal(t, stamp.KindStop, got.Kind)
	require.Empty(t, got.ActivityID)

	require.NoError(t, repo.Delete(ctx, "u1", "s1"))
	_, err = repo.Get(ctx, "u1", "s1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStampRepository_ListRangeAndOrder(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1")
	insertUser(t, db, "u2")
	repo := NewStampRepository(db)

	for i, offset := range []time.Duration{2 * time.Hour, 0, time.Hour, 3 * time.Hour} {
		st := &stamp.Stamp{
			ID:         string(rune('a' + i)),
			Timestamp:  stampBase.Add(offset),
			Kind:       stamp.KindStart,
			ActivityID: "act",
		}
		require.NoError(t, repo.Create(ctx, "u1", st))
	}
	require.NoError(t, repo.Create(ctx, "u2", &stamp.Stamp{ID: "other", Timestamp: stampBase, Kind: stamp.KindStop}))

	all, err := repo.List(ctx, "u1", stamp.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.True(t, all[0].Timestamp.Equal(stampBase))

	window, err := repo.List(ctx, "u1", stamp.ListOptions{
		Since:       stampBase.Add(time.Hour),
		Until:       stampBase.Add(3 * time.Hour),
		NewestFirst: true,
	})
	require.NoError(t, err)
	require.Len(t, window, 2)
	require.True(t, window[0].Timestamp.Equal(stampBase.Add(2*time.Hour)))

	page, err := repo.List(ctx, "u1", stamp.ListOptions{NewestFirst: true, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.True(t, page[0].Timestamp.Equal(stampBase.Add(2*time.Hour)))

	rest, err := repo.List(ctx, "u1", stamp.ListOptions{NewestFirst: true, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rest, 3)
	require.True(t, rest[0].Timestamp.Equal(stampBase.Add(2*time.Hour)))
}
