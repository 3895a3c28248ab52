package disc

import (
	"sort"
	"strings"
)

// DefaultNotFound is the label returned when no profile key matches.
const DefaultNotFound = "결과를 찾을 수 없음"

// KeyStrategy builds one candidate lookup key from the ranked dimensions.
type KeyStrategy struct {
	Name    string
	Letters int
}

// Key concatenates the first Letters dimensions of ranked.
func (k KeyStrategy) Key(ranked []Dimension) string {
	n := k.Letters
	if n > len(ranked) {
		n = len(ranked)
	}
	var b strings.Builder
	for _, d := range ranked[:n] {
		b.WriteString(string(d))
	}
	return b.String()
}

// DefaultStrategies tries the top three letters, then the top two, then the
// single highest letter.
var DefaultStrategies = []KeyStrategy{
	{Name: "top3", Letters: 3},
	{Name: "top2", Letters: 2},
	{Name: "top1", Letters: 1},
}

// Resolution is the outcome of resolving a score vector to a profile.
type Resolution struct {
	Ranked    []Dimension `json:"ranked"`
	Attempted []string    `json:"attempted"`
	Key       string      `json:"key,omitempty"`
	Strategy  string      `json:"strategy,omitempty"`
	Name      string      `json:"name"`
	Found     bool        `json:"found"`
}

// Rank orders the dimensions by descending score. Equal scores keep the
// canonical D, I, S, C priority.
func Rank(s Scores) []Dimension {
	out := make([]Dimension, len(Dimensions))
	copy(out, Dimensions[:])
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := s.Get(out[i]), s.Get(out[j])
		if si != sj {
			return si > sj
		}
		return out[i].index() < out[j].index()
	})
	return out
}

// Resolver maps score vectors to profile names using a sparse key table.
type Resolver struct {
	table      map[string]string
	strategies []KeyStrategy
	notFound   string
}

// NewResolver creates a Resolver over table. An empty notFound falls back to
// DefaultNotFound; nil strategies fall back to DefaultStrategies.
func NewResolver(table map[string]string, notFound string, strategies []KeyStrategy) *Resolver {
	if notFound == "" {
		notFound = DefaultNotFound
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	t := make(map[string]string, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &Resolver{table: t, strategies: strategies, notFound: notFound}
}

// Resolve ranks s and returns the first profile hit across the strategies.
func (r *Resolver) Resolve(s Scores) Resolution {
	res := Resolution{Ranked: Rank(s)}
	for _, strategy := range r.strategies {
		key := strategy.Key(res.Ranked)
		res.Attempted = append(res.Attempted, key)
		if name, ok := r.table[key]; ok {
			res.Key = key
			res.Strategy = strategy.Name
			res.Name = name
			res.Found = true
			return res
		}
	}
	res.Name = r.notFound
	return res
}

// NotFound returns the sentinel label.
func (r *Resolver) NotFound() string {
	return r.notFound
}
