package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oikos/disc-backend/internal/database"
	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// stepClock returns a clock that advances by one second per call.
func stepClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func TestUserRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	u := &model.UserRecord{Name: "Hong", Email: "hong@x.com"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID.String())
	assert.False(t, u.CreatedAt.IsZero())

	// Logins are appended, never deduplicated.
	again := &model.UserRecord{Name: "Hong", Email: "hong@x.com"}
	require.NoError(t, repo.Create(ctx, again))
	assert.NotEqual(t, u.ID, again.ID)
}

func TestResultRepositoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewResultRepository(openTestDB(t))
	repo.now = stepClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	for i, email := range []string{"a@x.com", "b@x.com", "a@x.com"} {
		res := &model.TestResult{
			Email:       email,
			Name:        "user",
			Scores:      disc.Scores{D: 10 + i, I: 1, S: 2, C: 3},
			ProfileName: "개발자형",
		}
		require.NoError(t, repo.Create(ctx, res))
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].CreatedAt.After(all[i].CreatedAt), "results must be newest first")
	}
	assert.Equal(t, 12, all[0].Scores.D)

	mine, err := repo.ListByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 12, mine[0].Scores.D)
	assert.Equal(t, 10, mine[1].Scores.D)

	n, err := repo.CountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	none, err := repo.ListByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestResultRepositorySameInstantKeepsInsertOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewResultRepository(openTestDB(t))
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	first := &model.TestResult{Email: "a@x.com", Name: "a", ProfileName: "first"}
	second := &model.TestResult{Email: "a@x.com", Name: "a", ProfileName: "second"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].ProfileName)
	assert.True(t, all[0].CreatedAt.Equal(fixed))
}

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)
	results := NewResultRepository(db)
	dash := NewDashboardRepository(db)

	empty, err := dash.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalResults)
	assert.Nil(t, empty.LatestResultAt)
	assert.Empty(t, empty.Profiles)

	require.NoError(t, users.Create(ctx, &model.UserRecord{Name: "a", Email: "a@x.com"}))
	require.NoError(t, users.Create(ctx, &model.UserRecord{Name: "a", Email: "a@x.com"}))
	require.NoError(t, users.Create(ctx, &model.UserRecord{Name: "b", Email: "b@x.com"}))

	for _, r := range []model.TestResult{
		{Email: "a@x.com", Name: "a", Scores: disc.Scores{D: 40, I: 30, S: 20, C: 10}, ProfileName: "영감형"},
		{Email: "b@x.com", Name: "b", Scores: disc.Scores{D: 20, I: 30, S: 40, C: 10}, ProfileName: "영감형"},
		{Email: "b@x.com", Name: "b", Scores: disc.Scores{D: 30, I: 30, S: 30, C: 30}, ProfileName: "개발자형"},
	} {
		res := r
		require.NoError(t, results.Create(ctx, &res))
	}

	s, err := dash.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalResults)
	assert.Equal(t, 2, s.TotalUsers)
	assert.InDelta(t, 30.0, s.Averages.D, 1e-9)
	assert.InDelta(t, 30.0, s.Averages.I, 1e-9)
	assert.InDelta(t, 30.0, s.Averages.S, 1e-9)
	assert.InDelta(t, 16.6667, s.Averages.C, 1e-3)
	require.Len(t, s.Profiles, 2)
	assert.Equal(t, model.ProfileCount{ProfileName: "영감형", Count: 2}, s.Profiles[0])
	require.NotNil(t, s.LatestResultAt)
}
