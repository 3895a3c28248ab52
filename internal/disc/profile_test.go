package disc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSumsPerDimension(t *testing.T) {
	answers := Answers{
		0: {D: 4, I: 3, S: 2, C: 1},
		1: {D: 1, I: 2, S: 3, C: 4},
		2: {D: 4, I: 1, S: 3, C: 2},
	}
	got := Aggregate(answers)
	assert.Equal(t, Scores{D: 9, I: 6, S: 8, C: 7}, got)
	assert.Equal(t, 30, got.Total())

	// Idempotent over the same input.
	assert.Equal(t, got, Aggregate(answers))
}

func TestAggregateTreatsMissingAsZero(t *testing.T) {
	got := Aggregate(Answers{0: {D: 4}, 1: {}})
	assert.Equal(t, Scores{D: 4}, got)
	assert.Equal(t, Scores{}, Aggregate(nil))
}

func TestRankTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
		want   []Dimension
	}{
		{"strict order", Scores{D: 40, I: 30, S: 20, C: 10}, []Dimension{Dominance, Influence, Steadiness, Conscientiousness}},
		{"reverse", Scores{D: 1, I: 2, S: 3, C: 4}, []Dimension{Conscientiousness, Steadiness, Influence, Dominance}},
		{"all zero", Scores{}, []Dimension{Dominance, Influence, Steadiness, Conscientiousness}},
		{"tie keeps priority", Scores{D: 10, I: 20, S: 20, C: 10}, []Dimension{Influence, Steadiness, Dominance, Conscientiousness}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(tt.scores))
		})
	}
}

func TestResolveAttemptsKeysInOrder(t *testing.T) {
	r := NewResolver(map[string]string{"D": "dominant"}, "", nil)
	res := r.Resolve(Scores{D: 40, I: 30, S: 20, C: 10})

	assert.Equal(t, []Dimension{Dominance, Influence, Steadiness, Conscientiousness}, res.Ranked)
	assert.Equal(t, []string{"DIS", "DI", "D"}, res.Attempted)
	assert.True(t, res.Found)
	assert.Equal(t, "D", res.Key)
	assert.Equal(t, "top1", res.Strategy)
	assert.Equal(t, "dominant", res.Name)
}

func TestResolveStopsAtFirstHit(t *testing.T) {
	table := map[string]string{"DIS": "three", "DI": "two", "D": "one"}
	r := NewResolver(table, "", nil)

	res := r.Resolve(Scores{D: 40, I: 30, S: 20, C: 10})
	assert.Equal(t, "three", res.Name)
	assert.Equal(t, []string{"DIS"}, res.Attempted)

	// DIC misses the top-3 entry and lands on DI.
	res = r.Resolve(Scores{D: 40, I: 30, S: 10, C: 20})
	assert.Equal(t, "two", res.Name)
	assert.Equal(t, "top2", res.Strategy)
}

func TestResolveSentinel(t *testing.T) {
	r := NewResolver(map[string]string{"C": "careful"}, "none", nil)
	res := r.Resolve(Scores{D: 10})
	assert.False(t, res.Found)
	assert.Equal(t, "none", res.Name)
	assert.Empty(t, res.Key)
	assert.Len(t, res.Attempted, 3)

	def := NewResolver(nil, "", nil)
	assert.Equal(t, DefaultNotFound, def.Resolve(Scores{}).Name)
}

func TestResolveDeterministic(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	r := c.Resolver()

	inputs := []Scores{{}, {D: 15, I: 15, S: 15, C: 15}, {D: 60}, {D: 12, I: 48, S: 30, C: 60}}
	for _, s := range inputs {
		first := r.Resolve(s)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, r.Resolve(s))
		}
	}
}

func TestResolveAllZeroUsesCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)

	res := c.Resolver().Resolve(Scores{})
	assert.True(t, res.Found)
	assert.Equal(t, []string{"DIS"}, res.Attempted)
	assert.Equal(t, c.Profiles["DIS"], res.Name)
}

func TestCatalogFallbackNeverSentinel(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	r := c.Resolver()

	// Every ordering of four distinct scores reaches at least the single-letter tier.
	perms := permutations([]int{40, 30, 20, 10})
	for _, p := range perms {
		s := Scores{D: p[0], I: p[1], S: p[2], C: p[3]}
		res := r.Resolve(s)
		assert.Truef(t, res.Found, "scores %+v resolved to sentinel", s)
		assert.NotEqual(t, c.NotFound, res.Name)
	}
}

func permutations(xs []int) [][]int {
	if len(xs) <= 1 {
		return [][]int{append([]int(nil), xs...)}
	}
	var out [][]int
	for i := range xs {
		rest := make([]int, 0, len(xs)-1)
		rest = append(rest, xs[:i]...)
		rest = append(rest, xs[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]int{xs[i]}, p...))
		}
	}
	return out
}
