package disc

// Scores is the per-dimension tally of one completed questionnaire.
type Scores struct {
	D int `json:"D"`
	I int `json:"I"`
	S int `json:"S"`
	C int `json:"C"`
}

// Get returns the score held by dimension d. Unknown dimensions score 0.
func (s Scores) Get(d Dimension) int {
	switch d {
	case Dominance:
		return s.D
	case Influence:
		return s.I
	case Steadiness:
		return s.S
	case Conscientiousness:
		return s.C
	}
	return 0
}

// Total returns the sum of all four dimensions.
func (s Scores) Total() int {
	return s.D + s.I + s.S + s.C
}

func (s *Scores) add(d Dimension, v int) {
	switch d {
	case Dominance:
		s.D += v
	case Influence:
		s.I += v
	case Steadiness:
		s.S += v
	case Conscientiousness:
		s.C += v
	}
}

// Aggregate folds every answer into a score vector. Missing or unset
// dimensions contribute 0.
func Aggregate(answers Answers) Scores {
	var total Scores
	for _, a := range answers {
		for _, d := range Dimensions {
			total.add(d, a.Get(d))
		}
	}
	return total
}
