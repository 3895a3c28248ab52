package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/oikos/disc-backend/internal/disc"
)

// TestResult is a persisted questionnaire outcome. Results are append-only.
type TestResult struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Scores      disc.Scores `json:"scores"`
	ProfileName string      `json:"profile_name"`
	CreatedAt   time.Time   `json:"created_at"`
}

// SetAnswerRequest assigns points to one dimension of a question.
// Value 0 clears the dimension.
type SetAnswerRequest struct {
	Dimension string `json:"dimension" binding:"required,oneof=D I S C d i s c"`
	Value     *int   `json:"value" binding:"required,min=0,max=4"`
}

// ProfileCount is the number of results that resolved to one profile.
type ProfileCount struct {
	ProfileName string `json:"profile_name"`
	Count       int    `json:"count"`
}

// DimensionAverages holds the mean score per dimension.
type DimensionAverages struct {
	D float64 `json:"D"`
	I float64 `json:"I"`
	S float64 `json:"S"`
	C float64 `json:"C"`
}

// ResultSummary aggregates all stored results for the admin dashboard.
type ResultSummary struct {
	TotalResults   int               `json:"total_results"`
	TotalUsers     int               `json:"total_users"`
	Averages       DimensionAverages `json:"averages"`
	Profiles       []ProfileCount    `json:"profiles"`
	LatestResultAt *time.Time        `json:"latest_result_at,omitempty"`
}
