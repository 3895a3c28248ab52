package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/model"
)

func TestDashboardAggregates(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.flow.Login(ctx, "s1", hong, model.RoleParticipant)
	require.NoError(t, err)
	require.NoError(t, fx.results.Record(ctx, &model.TestResult{
		Email: hong.Email, Name: hong.Name, Scores: disc.Scores{D: 60, I: 45, S: 30, C: 15}, ProfileName: "영감형",
	}))
	require.NoError(t, fx.results.Record(ctx, &model.TestResult{
		Email: "kim@x.com", Name: "Kim", Scores: disc.Scores{D: 15, I: 30, S: 45, C: 60}, ProfileName: "객관적사고형",
	}))

	summary, err := fx.results.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalResults)
	assert.Equal(t, 1, summary.TotalUsers)
	assert.InDelta(t, 37.5, summary.Averages.D, 1e-9)
	assert.InDelta(t, 37.5, summary.Averages.C, 1e-9)
	assert.Len(t, summary.Profiles, 2)
}

func TestExportRowsPropagatesFailure(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.store.failList = true

	_, err := fx.results.ExportRows(ctx)
	assert.ErrorIs(t, err, errDown)

	// The screen-facing listing degrades to an empty history instead.
	h := fx.results.All(ctx)
	assert.Zero(t, h.Count)
	assert.NotNil(t, h.Results)
}
