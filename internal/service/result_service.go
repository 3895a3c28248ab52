package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oikos/disc-backend/internal/model"
)

// ResultService serves stored results to participants and admins.
type ResultService struct {
	results   ResultStore
	dashboard DashboardStore
	log       zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(results ResultStore, dashboard DashboardStore, log zerolog.Logger) *ResultService {
	return &ResultService{
		results:   results,
		dashboard: dashboard,
		log:       log.With().Str("component", "result_service").Logger(),
	}
}

// History lists the results of one participant, newest first. A failed read
// is logged and reported as an empty history.
func (s *ResultService) History(ctx context.Context, email string) *HistoryView {
	results, err := s.results.ListByEmail(ctx, email)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("Failed to list participant results")
		results = nil
	}
	return newHistory(results)
}

// All lists every stored result, newest first. A failed read is logged and
// reported as an empty list.
func (s *ResultService) All(ctx context.Context) *HistoryView {
	results, err := s.results.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list results")
		results = nil
	}
	return newHistory(results)
}

// Returning reports whether email already has stored results. Lookup failures
// count as a first visit.
func (s *ResultService) Returning(ctx context.Context, email string) bool {
	n, err := s.results.CountByEmail(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("Failed to count participant results")
		return false
	}
	return n > 0
}

// Record appends a result.
func (s *ResultService) Record(ctx context.Context, res *model.TestResult) error {
	if err := s.results.Create(ctx, res); err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

// ExportRows returns every result for export. Unlike All, read failures are
// returned to the caller.
func (s *ResultService) ExportRows(ctx context.Context) ([]model.TestResult, error) {
	results, err := s.results.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// Dashboard returns the admin aggregates.
func (s *ResultService) Dashboard(ctx context.Context) (*model.ResultSummary, error) {
	summary, err := s.dashboard.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return summary, nil
}

func newHistory(results []model.TestResult) *HistoryView {
	if results == nil {
		results = []model.TestResult{}
	}
	h := &HistoryView{Results: results, Count: len(results)}
	if h.Count == 0 {
		h.Message = MsgNoHistory
	}
	return h
}
