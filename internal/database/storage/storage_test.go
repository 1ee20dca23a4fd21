package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/database/client"
	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/logger"
)

// newSQLiteClient открывает чистую базу SQLite во временном каталоге с применёнными миграциями
func newSQLiteClient(t *testing.T) *client.Client {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tracker.db")
	cfg := &config.Config{DatabaseURL: "sqlite://" + path}

	c, err := client.NewClient(cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestUserStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)
	users := NewUserStorage(c.DB, logger.Discard())

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	alice := &domain.User{Username: "alice"}
	require.NoError(t, users.CreateUser(ctx, alice))
	require.NotEmpty(t, alice.ID)

	bob := &domain.User{Username: "bob"}
	require.NoError(t, users.CreateUser(ctx, bob))
	require.NotEqual(t, alice.ID, bob.ID)

	got, err := users.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, alice.ID, got.ID)
	require.Equal(t, "alice", got.Username)

	list, err = users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestUserStorageGetMissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)
	users := NewUserStorage(c.DB, logger.Discard())

	got, err := users.GetUserByID(ctx, "5b7a6f2e-6a4c-4c57-9a3e-1f0f6a1f8d11")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = users.GetUserByID(ctx, "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestExerciseStorageFilters(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)
	users := NewUserStorage(c.DB, logger.Discard())
	exercises := NewExerciseStorage(c.DB, logger.Discard())

	alice := &domain.User{Username: "alice"}
	require.NoError(t, users.CreateUser(ctx, alice))
	bob := &domain.User{Username: "bob"}
	require.NoError(t, users.CreateUser(ctx, bob))

	for i, date := range []time.Time{day(2023, 1, 1), day(2023, 1, 5), day(2023, 1, 10), day(2023, 1, 15)} {
		e := &domain.Exercise{UserID: alice.ID, Description: "run", Duration: float64(10 * (i + 1)), Date: date}
		require.NoError(t, exercises.CreateExercise(ctx, e))
		require.NotEmpty(t, e.ID)
	}
	require.NoError(t, exercises.CreateExercise(ctx, &domain.Exercise{
		UserID: bob.ID, Description: "swim", Duration: 30, Date: day(2023, 1, 5),
	}))

	all, err := exercises.FindExercises(ctx, domain.ExerciseFilter{UserID: alice.ID})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for _, e := range all {
		require.Equal(t, alice.ID, e.UserID)
	}
	require.True(t, day(2023, 1, 1).Equal(all[0].Date))
	require.Equal(t, 10.0, all[0].Duration)

	from, to := day(2023, 1, 5), day(2023, 1, 10)
	ranged, err := exercises.FindExercises(ctx, domain.ExerciseFilter{UserID: alice.ID, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 2, "boundaries are inclusive")
	require.Equal(t, "Thu Jan 05 2023", domain.FormatDate(ranged[0].Date))
	require.Equal(t, "Tue Jan 10 2023", domain.FormatDate(ranged[1].Date))

	fromOnly, err := exercises.FindExercises(ctx, domain.ExerciseFilter{UserID: alice.ID, From: &to})
	require.NoError(t, err)
	require.Len(t, fromOnly, 2)

	limited, err := exercises.FindExercises(ctx, domain.ExerciseFilter{UserID: alice.ID, Limit: 3})
	require.NoError(t, err)
	require.Len(t, limited, 3)

	none, err := exercises.FindExercises(ctx, domain.ExerciseFilter{UserID: "5b7a6f2e-6a4c-4c57-9a3e-1f0f6a1f8d11"})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestExerciseStorageKeepsTimeOfDay(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)
	users := NewUserStorage(c.DB, logger.Discard())
	exercises := NewExerciseStorage(c.DB, logger.Discard())

	alice := &domain.User{Username: "alice"}
	require.NoError(t, users.CreateUser(ctx, alice))

	at := time.Date(2023, 1, 10, 18, 45, 30, 0, time.UTC)
	require.NoError(t, exercises.CreateExercise(ctx, &domain.Exercise{UserID: alice.ID, Description: "row", Duration: 20, Date: at}))

	to := day(2023, 1, 10)
	before, err := exercises.FindExercises(ctx, domain.ExerciseFilter{UserID: alice.ID, To: &to})
	require.NoError(t, err)
	require.Empty(t, before, "an exercise later on the boundary day is after midnight")

	from := day(2023, 1, 10)
	after, err := exercises.FindExercises(ctx, domain.ExerciseFilter{UserID: alice.ID, From: &from})
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.True(t, at.Equal(after[0].Date))
}

func TestBuildExerciseQuery(t *testing.T) {
	query, args := buildExerciseQuery(domain.ExerciseFilter{UserID: "u"})
	require.Equal(t, `SELECT id, user_id, description, duration, date, created_at FROM exercises WHERE user_id = ? ORDER BY created_at, id`, query)
	require.Equal(t, []any{"u"}, args)

	from, to := day(2023, 1, 1), day(2023, 2, 1)
	query, args = buildExerciseQuery(domain.ExerciseFilter{UserID: "u", From: &from, To: &to, Limit: 5})
	require.Contains(t, query, "AND date >= ? AND date <= ?")
	require.True(t, strings.HasSuffix(query, "ORDER BY created_at, id LIMIT ?"))
	require.Len(t, args, 4)
	require.Equal(t, 5, args[3])
}
