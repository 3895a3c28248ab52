package flow

import (
	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/model"
)

// Action is a user-triggered event fed to the Router.
type Action interface {
	Name() string
}

// Login attaches an authenticated user. Returning marks a user that already
// has stored results.
type Login struct {
	User      model.UserInfo
	Role      model.Role
	Returning bool
}

// Start begins a fresh questionnaire.
type Start struct{}

// SetAnswer assigns points to one dimension of a question.
type SetAnswer struct {
	Question  int
	Dimension disc.Dimension
	Value     int
}

// Submit finalizes the questionnaire.
type Submit struct{}

// Reset discards the current result and restarts the questionnaire.
type Reset struct{}

// ShowMyResults navigates to the participant's result history.
type ShowMyResults struct{}

// Logout detaches the user and returns to login.
type Logout struct{}

func (Login) Name() string         { return "login" }
func (Start) Name() string         { return "start" }
func (SetAnswer) Name() string     { return "set_answer" }
func (Submit) Name() string        { return "submit" }
func (Reset) Name() string         { return "reset" }
func (ShowMyResults) Name() string { return "my_results" }
func (Logout) Name() string        { return "logout" }

// Command is a side effect requested by a transition. The caller executes it.
type Command interface {
	Kind() string
}

// RecordResult asks the caller to append a TestResult.
type RecordResult struct {
	User        model.UserInfo
	Scores      disc.Scores
	ProfileName string
}

func (RecordResult) Kind() string { return "record_result" }
