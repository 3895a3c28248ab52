// Package disc holds the DISC questionnaire domain: answer validation,
// score aggregation, profile resolution and the static catalog.
package disc

import (
	"errors"
	"fmt"
	"strings"
)

// Dimension is one of the four DISC behavioral dimensions.
type Dimension string

const (
	Dominance         Dimension = "D"
	Influence         Dimension = "I"
	Steadiness        Dimension = "S"
	Conscientiousness Dimension = "C"
)

// Dimensions lists every dimension in canonical order. The order doubles as
// the tie-break priority when ranking equal scores.
var Dimensions = [...]Dimension{Dominance, Influence, Steadiness, Conscientiousness}

// Points are the rank values a participant distributes across the four
// options of a single question, highest first.
var Points = [...]int{4, 3, 2, 1}

// Domain errors.
var (
	ErrUnknownDimension   = errors.New("unknown DISC dimension")
	ErrInvalidPoint       = errors.New("point value must be between 1 and 4, or 0 to clear")
	ErrQuestionOutOfRange = errors.New("question index out of range")
)

// ParseDimension converts a letter (case-insensitive) into a Dimension.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
	}
	return d, nil
}

// Valid reports whether d is one of D, I, S or C.
func (d Dimension) Valid() bool {
	switch d {
	case Dominance, Influence, Steadiness, Conscientiousness:
		return true
	}
	return false
}

// index returns the canonical position of d, or -1.
func (d Dimension) index() int {
	for i, dim := range Dimensions {
		if dim == d {
			return i
		}
	}
	return -1
}

func validPoint(v int) bool {
	return v >= 0 && v <= len(Points)
}
