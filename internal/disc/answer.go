package disc

import "fmt"

// Answer is a participant's point assignment for one question. A zero value
// means the dimension has not been scored yet.
type Answer struct {
	D int `json:"D,omitempty"`
	I int `json:"I,omitempty"`
	S int `json:"S,omitempty"`
	C int `json:"C,omitempty"`
}

// Get returns the points assigned to d.
func (a Answer) Get(d Dimension) int {
	switch d {
	case Dominance:
		return a.D
	case Influence:
		return a.I
	case Steadiness:
		return a.S
	case Conscientiousness:
		return a.C
	}
	return 0
}

func (a *Answer) put(d Dimension, v int) {
	switch d {
	case Dominance:
		a.D = v
	case Influence:
		a.I = v
	case Steadiness:
		a.S = v
	case Conscientiousness:
		a.C = v
	}
}

// Set assigns value to d and returns the updated answer. Any other dimension
// already holding the same value is cleared, so the newest assignment always
// wins and an answer never carries duplicate points. A value of 0 clears d.
func (a Answer) Set(d Dimension, value int) (Answer, error) {
	if !d.Valid() {
		return a, fmt.Errorf("%w: %q", ErrUnknownDimension, string(d))
	}
	if !validPoint(value) {
		return a, fmt.Errorf("%w: %d", ErrInvalidPoint, value)
	}

	if value != 0 {
		for _, other := range Dimensions {
			if other != d && a.Get(other) == value {
				a.put(other, 0)
			}
		}
	}
	a.put(d, value)
	return a, nil
}

// Filled returns how many dimensions carry a nonzero value.
func (a Answer) Filled() int {
	n := 0
	for _, d := range Dimensions {
		if a.Get(d) > 0 {
			n++
		}
	}
	return n
}

// Complete reports whether the answer assigns a full permutation of the
// point values across all four dimensions.
func (a Answer) Complete() bool {
	var seen [len(Points) + 1]bool
	for _, d := range Dimensions {
		v := a.Get(d)
		if v < 1 || v > len(Points) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Answers maps a question index to its answer.
type Answers map[int]Answer

// Set applies a single point assignment to question q of a questionnaire
// holding count questions and returns the resulting answer.
func (as Answers) Set(q, count int, d Dimension, value int) (Answer, error) {
	if q < 0 || q >= count {
		return Answer{}, fmt.Errorf("%w: %d (questions: %d)", ErrQuestionOutOfRange, q, count)
	}
	updated, err := as[q].Set(d, value)
	if err != nil {
		return as[q], err
	}
	as[q] = updated
	return updated, nil
}

// Answered returns the number of questions whose answer is complete.
func (as Answers) Answered() int {
	n := 0
	for _, a := range as {
		if a.Complete() {
			n++
		}
	}
	return n
}

// Complete reports whether every one of count questions holds a complete
// answer and no answer exists outside the questionnaire.
func (as Answers) Complete(count int) bool {
	if count <= 0 || len(as) != count {
		return false
	}
	for q := 0; q < count; q++ {
		a, ok := as[q]
		if !ok || !a.Complete() {
			return false
		}
	}
	return true
}

// Progress returns the share of fully answered questions as a percentage.
func (as Answers) Progress(count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(as.Answered()) / float64(count) * 100
}

// Clone returns an independent copy.
func (as Answers) Clone() Answers {
	out := make(Answers, len(as))
	for k, v := range as {
		out[k] = v
	}
	return out
}
