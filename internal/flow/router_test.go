package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/model"
)

const testQuestions = 3

var hong = model.UserInfo{Name: "Hong", Email: "hong@x.com"}

func newTestRouter() *Router {
	table := map[string]string{"D": "dominant", "I": "influencer", "S": "steady", "C": "careful", "DI": "driver"}
	return NewRouter(disc.NewResolver(table, "", nil), testQuestions)
}

func apply(t *testing.T, r *Router, s State, a Action) (State, []Command) {
	t.Helper()
	next, cmds, err := r.Apply(s, a)
	require.NoError(t, err)
	return next, cmds
}

// answerAll fills every question with the same permutation.
func answerAll(t *testing.T, r *Router, s State, perm [4]int) State {
	t.Helper()
	for q := 0; q < testQuestions; q++ {
		for i, d := range disc.Dimensions {
			s, _ = apply(t, r, s, SetAnswer{Question: q, Dimension: d, Value: perm[i]})
		}
	}
	return s
}

func TestLoginRouting(t *testing.T) {
	r := newTestRouter()
	tests := []struct {
		name  string
		login Login
		want  Screen
	}{
		{"first visit", Login{User: hong, Role: model.RoleParticipant}, ScreenStart},
		{"returning", Login{User: hong, Role: model.RoleParticipant, Returning: true}, ScreenMyResults},
		{"admin", Login{User: model.UserInfo{Name: "A", Email: "admin@oikos.edu"}, Role: model.RoleAdmin, Returning: true}, ScreenAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cmds := apply(t, r, NewState(), tt.login)
			assert.Equal(t, tt.want, s.Screen)
			assert.Empty(t, cmds)
			require.NotNil(t, s.User)
			assert.Equal(t, tt.login.User, *s.User)
		})
	}
}

func TestLoginRequiresUser(t *testing.T) {
	r := newTestRouter()
	s, _, err := r.Apply(NewState(), Login{})
	assert.ErrorIs(t, err, ErrMissingUser)
	assert.Equal(t, ScreenLogin, s.Screen)
}

func TestSubmitIssuesSingleRecordCommand(t *testing.T) {
	r := newTestRouter()
	s, _ := apply(t, r, NewState(), Login{User: hong, Role: model.RoleParticipant})
	s, _ = apply(t, r, s, Start{})
	require.Equal(t, ScreenTest, s.Screen)

	s = answerAll(t, r, s, [4]int{4, 3, 2, 1})
	s, cmds := apply(t, r, s, Submit{})

	assert.Equal(t, ScreenResults, s.Screen)
	require.NotNil(t, s.Scores)
	assert.Equal(t, disc.Scores{D: 12, I: 9, S: 6, C: 3}, *s.Scores)
	assert.True(t, s.ResultRecorded)
	assert.Nil(t, s.Answers)

	require.Len(t, cmds, 1)
	rec, ok := cmds[0].(RecordResult)
	require.True(t, ok)
	assert.Equal(t, hong, rec.User)
	assert.Equal(t, *s.Scores, rec.Scores)
	assert.Equal(t, "driver", rec.ProfileName)

	// A second submit on results is rejected and issues nothing.
	again, cmds, err := r.Apply(s, Submit{})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
	assert.Empty(t, cmds)
	assert.Equal(t, s, again)
}

func TestSubmitGate(t *testing.T) {
	r := newTestRouter()
	s, _ := apply(t, r, NewState(), Login{User: hong})
	s, _ = apply(t, r, s, Start{})

	for q := 0; q < testQuestions-1; q++ {
		for i, d := range disc.Dimensions {
			s, _ = apply(t, r, s, SetAnswer{Question: q, Dimension: d, Value: 4 - i})
		}
	}
	_, cmds, err := r.Apply(s, Submit{})
	assert.ErrorIs(t, err, ErrAnswersIncomplete)
	assert.Empty(t, cmds)

	// Duplicate assignment vacates the earlier holder, so the last question stays open.
	last := testQuestions - 1
	s, _ = apply(t, r, s, SetAnswer{Question: last, Dimension: disc.Dominance, Value: 4})
	s, _ = apply(t, r, s, SetAnswer{Question: last, Dimension: disc.Influence, Value: 4})
	s, _ = apply(t, r, s, SetAnswer{Question: last, Dimension: disc.Steadiness, Value: 3})
	s, _ = apply(t, r, s, SetAnswer{Question: last, Dimension: disc.Conscientiousness, Value: 2})
	assert.Equal(t, disc.Answer{I: 4, S: 3, C: 2}, s.Answers[last])
	_, _, err = r.Apply(s, Submit{})
	assert.ErrorIs(t, err, ErrAnswersIncomplete)

	s, _ = apply(t, r, s, SetAnswer{Question: last, Dimension: disc.Dominance, Value: 1})
	s, cmds = apply(t, r, s, Submit{})
	assert.Equal(t, ScreenResults, s.Screen)
	assert.Len(t, cmds, 1)
}

func TestSetAnswerErrorsKeepState(t *testing.T) {
	r := newTestRouter()
	s, _ := apply(t, r, NewState(), Login{User: hong})
	s, _ = apply(t, r, s, Start{})
	s, _ = apply(t, r, s, SetAnswer{Question: 0, Dimension: disc.Dominance, Value: 4})

	next, _, err := r.Apply(s, SetAnswer{Question: 0, Dimension: disc.Influence, Value: 9})
	assert.ErrorIs(t, err, disc.ErrInvalidPoint)
	assert.Equal(t, s, next)

	_, _, err = r.Apply(s, SetAnswer{Question: testQuestions, Dimension: disc.Influence, Value: 1})
	assert.ErrorIs(t, err, disc.ErrQuestionOutOfRange)
}

func TestResetAndMyResultsClearScores(t *testing.T) {
	r := newTestRouter()
	s, _ := apply(t, r, NewState(), Login{User: hong})
	s, _ = apply(t, r, s, Start{})
	s = answerAll(t, r, s, [4]int{1, 2, 3, 4})
	results, _ := apply(t, r, s, Submit{})

	reset, cmds := apply(t, r, results, Reset{})
	assert.Equal(t, ScreenTest, reset.Screen)
	assert.Nil(t, reset.Scores)
	assert.False(t, reset.ResultRecorded)
	assert.Empty(t, reset.Answers)
	assert.Empty(t, cmds)

	mine, _ := apply(t, r, results, ShowMyResults{})
	assert.Equal(t, ScreenMyResults, mine.Screen)
	assert.Nil(t, mine.Scores)
	assert.Equal(t, hong, *mine.User)

	// A new round records again.
	s = answerAll(t, r, reset, [4]int{4, 3, 2, 1})
	_, cmds = apply(t, r, s, Submit{})
	assert.Len(t, cmds, 1)
}

func TestLogoutFromAnyAuthenticatedScreen(t *testing.T) {
	r := newTestRouter()
	start, _ := apply(t, r, NewState(), Login{User: hong})
	test, _ := apply(t, r, start, Start{})
	admin, _ := apply(t, r, NewState(), Login{User: hong, Role: model.RoleAdmin})
	mine, _ := apply(t, r, NewState(), Login{User: hong, Returning: true})

	for _, s := range []State{start, test, admin, mine} {
		out, cmds := apply(t, r, s, Logout{})
		assert.Equal(t, NewState(), out)
		assert.Empty(t, cmds)
	}

	_, _, err := r.Apply(NewState(), Logout{})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestMyResultsWithoutUserFallsBackToLogin(t *testing.T) {
	r := newTestRouter()
	s := State{Screen: ScreenMyResults}
	assert.Equal(t, ScreenLogin, s.Normalize().Screen)

	out, _ := apply(t, r, s, Login{User: hong})
	assert.Equal(t, ScreenStart, out.Screen)
}

func TestRejectedTransitions(t *testing.T) {
	r := newTestRouter()
	admin, _ := apply(t, r, NewState(), Login{User: hong, Role: model.RoleAdmin})
	start, _ := apply(t, r, NewState(), Login{User: hong})

	cases := []struct {
		name string
		s    State
		a    Action
	}{
		{"start from login", NewState(), Start{}},
		{"submit from start", start, Submit{}},
		{"start from admin", admin, Start{}},
		{"login twice", start, Login{User: hong}},
		{"reset from start", start, Reset{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, cmds, err := r.Apply(tc.s, tc.a)
			assert.ErrorIs(t, err, ErrTransitionNotAllowed)
			assert.Empty(t, cmds)
			assert.Equal(t, tc.s, out)
		})
	}
}
