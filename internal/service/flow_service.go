package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/flow"
	"github.com/oikos/disc-backend/internal/metrics"
	"github.com/oikos/disc-backend/internal/model"
	"github.com/oikos/disc-backend/internal/repository"
	ws "github.com/oikos/disc-backend/internal/websocket"
)

// Flow errors.
var (
	ErrSessionExpired = errors.New("session expired or logged out")
	ErrUserStore      = errors.New("could not record login")
	ErrNoResult       = errors.New("no result on this screen")
	ErrBusy           = errors.New("session is being updated by another request")
)

// maxSwapAttempts bounds the reload-and-reapply loop of Dispatch.
const maxSwapAttempts = 3

// FlowService drives the screen router for stored sessions and executes
// the commands it emits.
type FlowService struct {
	router    *flow.Router
	presenter *Presenter
	users     UserStore
	results   *ResultService
	states    FlowStateStore
	publisher ResultPublisher
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// NewFlowService creates a new FlowService. publisher may be nil.
func NewFlowService(
	presenter *Presenter,
	users UserStore,
	results *ResultService,
	states FlowStateStore,
	publisher ResultPublisher,
	m *metrics.Metrics,
	log zerolog.Logger,
) *FlowService {
	catalog := presenter.Catalog()
	return &FlowService{
		router:    flow.NewRouter(catalog.Resolver(), catalog.QuestionCount()),
		presenter: presenter,
		users:     users,
		results:   results,
		states:    states,
		publisher: publisher,
		metrics:   m,
		log:       log.With().Str("component", "flow_service").Logger(),
	}
}

// Login records the login, starts the session state and routes the user to
// the admin, myResults or start screen. If the users insert fails nothing is
// stored and the caller stays on login.
func (s *FlowService) Login(ctx context.Context, sessionID string, user model.UserInfo, role model.Role) (*View, error) {
	record := &model.UserRecord{Name: user.Name, Email: user.Email}
	if err := s.users.Create(ctx, record); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("Failed to record login")
		s.metrics.Login(string(role), metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %v", ErrUserStore, err)
	}

	returning := role != model.RoleAdmin && s.results.Returning(ctx, user.Email)

	state, _, err := s.router.Apply(flow.NewState(), flow.Login{User: user, Role: role, Returning: returning})
	if err != nil {
		s.metrics.Login(string(role), metrics.OutcomeRejected)
		return nil, err
	}
	if err := s.states.Save(ctx, sessionID, state); err != nil {
		s.metrics.Login(string(role), metrics.OutcomeFailed)
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.metrics.Login(string(role), metrics.OutcomeOK)
	s.log.Info().
		Str("email", user.Email).
		Str("role", string(role)).
		Str("screen", string(state.Screen)).
		Msg("User logged in")

	return s.render(ctx, state), nil
}

// View renders the current screen of a session.
func (s *FlowService) View(ctx context.Context, sessionID string) (*View, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, state.Normalize()), nil
}

// Dispatch applies action to the session. Rejected actions leave the stored
// state untouched. The new state is swapped in against the version that was
// loaded; a request losing the race reloads and applies its action again, so
// concurrent submits issue the result write once.
func (s *FlowService) Dispatch(ctx context.Context, sessionID string, action flow.Action) (*View, error) {
	if _, ok := action.(flow.Logout); ok {
		return s.Logout(ctx, sessionID)
	}

	for attempt := 1; ; attempt++ {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		next, cmds, err := s.router.Apply(state, action)
		if err != nil {
			s.metrics.FlowAction(action.Name(), metrics.OutcomeRejected)
			return nil, err
		}

		// The state carries the ResultRecorded flag, so it is stored before
		// the commands run.
		err = s.states.CompareAndSwap(ctx, sessionID, state, next)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrStateConflict):
			if attempt < maxSwapAttempts {
				continue
			}
			s.metrics.FlowAction(action.Name(), metrics.OutcomeRejected)
			return nil, ErrBusy
		case errors.Is(err, repository.ErrSessionNotFound):
			return nil, ErrSessionExpired
		default:
			s.metrics.FlowAction(action.Name(), metrics.OutcomeFailed)
			return nil, fmt.Errorf("save session: %w", err)
		}
		s.execute(ctx, cmds)

		s.metrics.FlowAction(action.Name(), metrics.OutcomeOK)
		return s.render(ctx, next), nil
	}
}

// Logout ends the session and returns the login screen.
func (s *FlowService) Logout(ctx context.Context, sessionID string) (*View, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, _, err := s.router.Apply(state, flow.Logout{})
	if err != nil {
		s.metrics.FlowAction("logout", metrics.OutcomeRejected)
		return nil, err
	}
	if err := s.states.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}

	s.metrics.FlowAction("logout", metrics.OutcomeOK)
	if state.User != nil {
		s.log.Info().Str("email", state.User.Email).Msg("User logged out")
	}
	return s.render(ctx, next), nil
}

// SessionActive reports whether the session still has stored state.
func (s *FlowService) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	return s.states.Exists(ctx, sessionID)
}

// CurrentResult returns the result shown on the session's results screen.
func (s *FlowService) CurrentResult(ctx context.Context, sessionID string) (*model.UserInfo, *ResultView, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	state = state.Normalize()
	if state.Screen != flow.ScreenResults || state.Scores == nil || state.User == nil {
		return nil, nil, ErrNoResult
	}
	user := *state.User
	return &user, s.presenter.Result(*state.Scores), nil
}

// QuestionCount returns the number of questions in the questionnaire.
func (s *FlowService) QuestionCount() int {
	return s.router.QuestionCount()
}

func (s *FlowService) load(ctx context.Context, sessionID string) (flow.State, error) {
	state, err := s.states.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return flow.State{}, ErrSessionExpired
		}
		return flow.State{}, err
	}
	return state, nil
}

func (s *FlowService) render(ctx context.Context, state flow.State) *View {
	v := &View{Screen: state.Screen, User: state.User, Role: state.Role}
	switch state.Screen {
	case flow.ScreenTest:
		v.Test = s.presenter.Test(state.Answers)
	case flow.ScreenResults:
		if state.Scores == nil {
			v.Message = MsgMissingResult
			break
		}
		v.Result = s.presenter.Result(*state.Scores)
	case flow.ScreenMyResults:
		v.History = s.results.History(ctx, state.User.Email)
	case flow.ScreenAdmin:
		v.History = s.results.All(ctx)
	}
	return v
}

func (s *FlowService) execute(ctx context.Context, cmds []flow.Command) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case flow.RecordResult:
			s.recordResult(ctx, c)
		default:
			s.log.Warn().Str("kind", cmd.Kind()).Msg("Unhandled flow command")
		}
	}
}

// recordResult stores the result once. Failures are logged and counted but
// never surface to the participant.
func (s *FlowService) recordResult(ctx context.Context, c flow.RecordResult) {
	res := &model.TestResult{
		Email:       c.User.Email,
		Name:        c.User.Name,
		Scores:      c.Scores,
		ProfileName: c.ProfileName,
	}
	if err := s.results.Record(ctx, res); err != nil {
		s.metrics.ResultRecorded(metrics.OutcomeFailed)
		s.log.Error().Err(err).Str("email", res.Email).Msg("Failed to store result")
		return
	}
	s.metrics.ResultRecorded(metrics.OutcomeOK)
	s.log.Info().
		Str("email", res.Email).
		Str("profile", res.ProfileName).
		Int("total", res.Scores.Total()).
		Msg("Result stored")

	s.publish(ctx, res)
}

func (s *FlowService) publish(ctx context.Context, res *model.TestResult) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(ws.ResultCreatedEvent{
		Event:       ws.EventResultCreated,
		ID:          res.ID,
		Email:       res.Email,
		Name:        res.Name,
		Scores:      res.Scores,
		ProfileName: res.ProfileName,
		CreatedAt:   res.CreatedAt,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode result event")
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.log.Warn().Err(err).Msg("Failed to publish result event")
	}
}

// ParseSetAnswer converts an answer request into a router action.
func ParseSetAnswer(question int, req model.SetAnswerRequest) (flow.SetAnswer, error) {
	d, err := disc.ParseDimension(req.Dimension)
	if err != nil {
		return flow.SetAnswer{}, err
	}
	value := 0
	if req.Value != nil {
		value = *req.Value
	}
	return flow.SetAnswer{Question: question, Dimension: d, Value: value}, nil
}
