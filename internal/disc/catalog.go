package disc

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is returned when a catalog document fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Options holds the four statements of a question, one per dimension.
type Options struct {
	D string `yaml:"D" json:"D"`
	I string `yaml:"I" json:"I"`
	S string `yaml:"S" json:"S"`
	C string `yaml:"C" json:"C"`
}

// Get returns the statement for d.
func (o Options) Get(d Dimension) string {
	switch d {
	case Dominance:
		return o.D
	case Influence:
		return o.I
	case Steadiness:
		return o.S
	case Conscientiousness:
		return o.C
	}
	return ""
}

// Question is one ranked-choice item of the questionnaire.
type Question struct {
	Category string  `yaml:"category" json:"category"`
	Options  Options `yaml:"options" json:"options"`
}

// DimensionInfo carries the narrative text and chart styling of a dimension.
type DimensionInfo struct {
	Label  string   `yaml:"label" json:"label"`
	Color  string   `yaml:"color" json:"color"`
	Title  string   `yaml:"title" json:"title"`
	Points []string `yaml:"points" json:"points"`
}

// Catalog is the static questionnaire configuration.
type Catalog struct {
	Title      string                      `yaml:"title" json:"title"`
	NotFound   string                      `yaml:"not_found" json:"-"`
	Questions  []Question                  `yaml:"questions" json:"questions"`
	Profiles   map[string]string           `yaml:"profiles" json:"-"`
	Dimensions map[Dimension]DimensionInfo `yaml:"dimensions" json:"dimensions"`
}

// LoadCatalog reads a catalog from path, or the embedded default when path
// is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if c.NotFound == "" {
		c.NotFound = DefaultNotFound
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the structural rules the scoring core relies on.
func (c *Catalog) Validate() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidCatalog)
	}
	for i, q := range c.Questions {
		if q.Category == "" {
			return fmt.Errorf("%w: question %d has no category", ErrInvalidCatalog, i+1)
		}
		for _, d := range Dimensions {
			if q.Options.Get(d) == "" {
				return fmt.Errorf("%w: question %d is missing option %s", ErrInvalidCatalog, i+1, d)
			}
		}
	}

	for key, name := range c.Profiles {
		if err := validProfileKey(key); err != nil {
			return fmt.Errorf("%w: profile %q: %v", ErrInvalidCatalog, key, err)
		}
		if name == "" {
			return fmt.Errorf("%w: profile %q has no name", ErrInvalidCatalog, key)
		}
	}

	// Single-letter keys terminate the fallback chain.
	for _, d := range Dimensions {
		if _, ok := c.Profiles[string(d)]; !ok {
			return fmt.Errorf("%w: profile %s is required", ErrInvalidCatalog, d)
		}
		if _, ok := c.Dimensions[d]; !ok {
			return fmt.Errorf("%w: dimension %s has no description", ErrInvalidCatalog, d)
		}
	}
	return nil
}

func validProfileKey(key string) error {
	if len(key) < 1 || len(key) > 3 {
		return errors.New("key must have 1 to 3 letters")
	}
	seen := make(map[Dimension]bool, len(key))
	for _, r := range key {
		d := Dimension(string(r))
		if !d.Valid() {
			return fmt.Errorf("letter %q is not a DISC dimension", r)
		}
		if seen[d] {
			return fmt.Errorf("letter %q repeats", r)
		}
		seen[d] = true
	}
	return nil
}

// Resolver builds a profile resolver over the catalog's profile table.
func (c *Catalog) Resolver() *Resolver {
	return NewResolver(c.Profiles, c.NotFound, DefaultStrategies)
}

// Highlights returns the descriptions of the two highest-ranked dimensions.
func (c *Catalog) Highlights(ranked []Dimension) []DimensionInfo {
	n := 2
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]DimensionInfo, 0, n)
	for _, d := range ranked[:n] {
		if info, ok := c.Dimensions[d]; ok {
			out = append(out, info)
		}
	}
	return out
}

// QuestionCount returns the number of questions.
func (c *Catalog) QuestionCount() int {
	return len(c.Questions)
}
