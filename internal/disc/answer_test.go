package disc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerSetLastWriteWins(t *testing.T) {
	var a Answer
	a, err := a.Set(Dominance, 4)
	require.NoError(t, err)
	a, err = a.Set(Influence, 4)
	require.NoError(t, err)

	assert.Equal(t, 0, a.D, "previous holder of 4 must be cleared")
	assert.Equal(t, 4, a.I)
}

func TestAnswerSetClear(t *testing.T) {
	a := Answer{D: 4, I: 3}
	a, err := a.Set(Dominance, 0)
	require.NoError(t, err)
	assert.Equal(t, Answer{I: 3}, a)
}

func TestAnswerSetRejectsInvalidInput(t *testing.T) {
	a := Answer{D: 1}

	_, err := a.Set(Dominance, 5)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = a.Set(Dominance, -1)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = a.Set(Dimension("X"), 2)
	assert.ErrorIs(t, err, ErrUnknownDimension)
}

func TestAnswerNeverHoldsDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var a Answer
	for i := 0; i < 2000; i++ {
		d := Dimensions[rng.Intn(len(Dimensions))]
		v := rng.Intn(len(Points) + 1)
		var err error
		a, err = a.Set(d, v)
		require.NoError(t, err)

		seen := map[int]Dimension{}
		for _, dim := range Dimensions {
			got := a.Get(dim)
			if got == 0 {
				continue
			}
			prev, dup := seen[got]
			require.Falsef(t, dup, "value %d held by %s and %s after step %d", got, prev, dim, i)
			seen[got] = dim
		}
	}
}

func TestAnswerComplete(t *testing.T) {
	tests := []struct {
		name   string
		answer Answer
		want   bool
	}{
		{"full permutation", Answer{D: 4, I: 3, S: 2, C: 1}, true},
		{"other permutation", Answer{D: 1, I: 2, S: 4, C: 3}, true},
		{"one missing", Answer{D: 4, I: 3, S: 2}, false},
		{"empty", Answer{}, false},
		{"duplicate values", Answer{D: 4, I: 4, S: 2, C: 1}, false},
		{"out of range", Answer{D: 5, I: 3, S: 2, C: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.answer.Complete())
		})
	}
}

func TestAnswersCompletionGate(t *testing.T) {
	const count = 3
	as := Answers{}
	assert.False(t, as.Complete(count))
	assert.Zero(t, as.Progress(count))

	full := []int{4, 3, 2, 1}
	for q := 0; q < count; q++ {
		for i, d := range Dimensions {
			_, err := as.Set(q, count, d, full[i])
			require.NoError(t, err)
		}
		if q < count-1 {
			assert.False(t, as.Complete(count), "gate must stay closed after question %d", q)
		}
	}
	assert.True(t, as.Complete(count))
	assert.Equal(t, float64(100), as.Progress(count))

	// Clearing one point reopens the gate.
	_, err := as.Set(1, count, Steadiness, 0)
	require.NoError(t, err)
	assert.False(t, as.Complete(count))
	assert.InDelta(t, 66.67, as.Progress(count), 0.01)
}

func TestAnswersSetOutOfRange(t *testing.T) {
	as := Answers{}
	_, err := as.Set(3, 3, Dominance, 4)
	assert.ErrorIs(t, err, ErrQuestionOutOfRange)
	_, err = as.Set(-1, 3, Dominance, 4)
	assert.ErrorIs(t, err, ErrQuestionOutOfRange)
	assert.Empty(t, as)
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension(" s ")
	require.NoError(t, err)
	assert.Equal(t, Steadiness, d)

	_, err = ParseDimension("Q")
	assert.ErrorIs(t, err, ErrUnknownDimension)
}
