package disc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)

	assert.Equal(t, 15, c.QuestionCount())
	assert.Equal(t, DefaultNotFound, c.NotFound)
	for _, d := range Dimensions {
		assert.Contains(t, c.Profiles, string(d))
		assert.NotEmpty(t, c.Dimensions[d].Points)
	}
}

func TestCatalogHighlights(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)

	got := c.Highlights([]Dimension{Steadiness, Conscientiousness, Dominance, Influence})
	require.Len(t, got, 2)
	assert.Equal(t, c.Dimensions[Steadiness].Title, got[0].Title)
	assert.Equal(t, c.Dimensions[Conscientiousness].Title, got[1].Title)
}

func TestParseCatalogValidation(t *testing.T) {
	base := `
questions:
  - category: q1
    options: {D: a, I: b, S: c, C: d}
dimensions:
  D: {title: D}
  I: {title: I}
  S: {title: S}
  C: {title: C}
`
	tests := []struct {
		name     string
		profiles string
		extra    string
		wantErr  bool
	}{
		{"valid", "profiles: {D: a, I: b, S: c, C: d, DI: e}", "", false},
		{"missing single letter", "profiles: {D: a, I: b, S: c}", "", true},
		{"repeated letter", "profiles: {D: a, I: b, S: c, C: d, DD: e}", "", true},
		{"foreign letter", "profiles: {D: a, I: b, S: c, C: d, DX: e}", "", true},
		{"too long", "profiles: {D: a, I: b, S: c, C: d, DISC: e}", "", true},
		{"missing option", "profiles: {D: a, I: b, S: c, C: d}", "  - category: q2\n    options: {D: a, I: b, S: c}\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := base + tt.profiles + "\n"
			if tt.extra != "" {
				doc = "questions:\n  - category: q1\n    options: {D: a, I: b, S: c, C: d}\n" + tt.extra +
					"dimensions:\n  D: {title: D}\n  I: {title: I}\n  S: {title: S}\n  C: {title: C}\n" + tt.profiles + "\n"
			}
			_, err := ParseCatalog([]byte(doc))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCatalog)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
not_found: none
questions:
  - category: only
    options: {D: a, I: b, S: c, C: d}
profiles: {D: a, I: b, S: c, C: d}
dimensions:
  D: {title: D}
  I: {title: I}
  S: {title: S}
  C: {title: C}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.QuestionCount())
	assert.Equal(t, "none", c.Resolver().NotFound())

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
