// Package flow implements the questionnaire screen router: a finite state
// machine over the application screens driven by explicit user actions.
package flow

import (
	"errors"
	"fmt"

	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/model"
)

// Screen names an application screen.
type Screen string

const (
	ScreenLogin     Screen = "login"
	ScreenStart     Screen = "start"
	ScreenTest      Screen = "test"
	ScreenResults   Screen = "results"
	ScreenMyResults Screen = "myResults"
	ScreenAdmin     Screen = "admin"
)

// Router errors.
var (
	ErrTransitionNotAllowed = errors.New("action not allowed on this screen")
	ErrAnswersIncomplete    = errors.New("every question needs a full 4-3-2-1 assignment")
	ErrMissingUser          = errors.New("login requires a user")
)

// State is the per-session router state.
type State struct {
	Screen  Screen          `json:"screen"`
	User    *model.UserInfo `json:"user,omitempty"`
	Role    model.Role      `json:"role,omitempty"`
	Scores  *disc.Scores    `json:"scores,omitempty"`
	Answers disc.Answers    `json:"answers,omitempty"`

	// ResultRecorded is set once the RecordResult command has been issued for
	// the current results entry and cleared when leaving results.
	ResultRecorded bool `json:"result_recorded,omitempty"`

	// Version is bumped by the state store on every successful swap.
	Version uint64 `json:"version,omitempty"`
}

// NewState returns the initial, unauthenticated state.
func NewState() State {
	return State{Screen: ScreenLogin}
}

// Authenticated reports whether a user is attached to the state.
func (s State) Authenticated() bool {
	return s.User != nil
}

// Normalize applies the fallbacks for screens reached without the state
// they require: myResults without a user falls back to login.
func (s State) Normalize() State {
	if s.Screen == "" {
		s.Screen = ScreenLogin
	}
	if s.Screen != ScreenLogin && s.User == nil {
		return NewState()
	}
	return s
}

// Router applies actions to states.
type Router struct {
	resolver      *disc.Resolver
	questionCount int
}

// NewRouter creates a Router for a questionnaire of questionCount questions.
func NewRouter(resolver *disc.Resolver, questionCount int) *Router {
	return &Router{resolver: resolver, questionCount: questionCount}
}

// QuestionCount returns the number of questions the router expects.
func (r *Router) QuestionCount() int {
	return r.questionCount
}

// Apply runs action a against state s. On error the returned state equals s
// and no commands are issued.
func (r *Router) Apply(s State, a Action) (State, []Command, error) {
	s = s.Normalize()

	if _, ok := a.(Logout); ok {
		if !s.Authenticated() {
			return s, nil, r.notAllowed(s, a)
		}
		return NewState(), nil, nil
	}

	switch s.Screen {
	case ScreenLogin:
		if login, ok := a.(Login); ok {
			return r.login(s, login)
		}
	case ScreenStart:
		switch a.(type) {
		case Start:
			return r.enterTest(s), nil, nil
		case ShowMyResults:
			return r.enterMyResults(s), nil, nil
		}
	case ScreenMyResults:
		if _, ok := a.(Start); ok {
			return r.enterTest(s), nil, nil
		}
	case ScreenTest:
		switch act := a.(type) {
		case SetAnswer:
			return r.setAnswer(s, act)
		case Submit:
			return r.submit(s)
		}
	case ScreenResults:
		switch a.(type) {
		case Reset:
			return r.enterTest(s), nil, nil
		case ShowMyResults:
			return r.enterMyResults(s), nil, nil
		}
	}
	return s, nil, r.notAllowed(s, a)
}

func (r *Router) notAllowed(s State, a Action) error {
	return fmt.Errorf("%w: %s on %s", ErrTransitionNotAllowed, a.Name(), s.Screen)
}

func (r *Router) login(s State, a Login) (State, []Command, error) {
	if a.User.Name == "" || a.User.Email == "" {
		return s, nil, ErrMissingUser
	}
	user := a.User
	next := State{User: &user, Role: a.Role}
	switch {
	case a.Role == model.RoleAdmin:
		next.Screen = ScreenAdmin
	case a.Returning:
		next.Screen = ScreenMyResults
	default:
		next.Screen = ScreenStart
	}
	return next, nil, nil
}

func (r *Router) enterTest(s State) State {
	s.Screen = ScreenTest
	s.Scores = nil
	s.ResultRecorded = false
	s.Answers = disc.Answers{}
	return s
}

func (r *Router) enterMyResults(s State) State {
	s.Screen = ScreenMyResults
	s.Scores = nil
	s.ResultRecorded = false
	s.Answers = nil
	return s
}

func (r *Router) setAnswer(s State, a SetAnswer) (State, []Command, error) {
	answers := s.Answers.Clone()
	if _, err := answers.Set(a.Question, r.questionCount, a.Dimension, a.Value); err != nil {
		return s, nil, err
	}
	s.Answers = answers
	return s, nil, nil
}

func (r *Router) submit(s State) (State, []Command, error) {
	if !s.Answers.Complete(r.questionCount) {
		return s, nil, ErrAnswersIncomplete
	}
	scores := disc.Aggregate(s.Answers)
	s.Screen = ScreenResults
	s.Scores = &scores
	s.Answers = nil
	s.ResultRecorded = false
	return r.enterResults(s)
}

// enterResults issues the result write at most once per results entry.
func (r *Router) enterResults(s State) (State, []Command, error) {
	if s.ResultRecorded || s.Scores == nil || s.User == nil {
		return s, nil, nil
	}
	profile := r.resolver.Resolve(*s.Scores)
	s.ResultRecorded = true
	return s, []Command{RecordResult{
		User:        *s.User,
		Scores:      *s.Scores,
		ProfileName: profile.Name,
	}}, nil
}
