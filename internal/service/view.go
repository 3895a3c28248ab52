package service

import (
	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/flow"
	"github.com/oikos/disc-backend/internal/model"
)

// Messages shown on screens reached without the data they render.
const (
	MsgMissingResult = "결과 데이터가 없습니다. 테스트를 다시 진행해 주세요."
	MsgNoHistory     = "아직 저장된 결과가 없습니다."
)

// View describes the current screen of a session.
type View struct {
	Screen  flow.Screen     `json:"screen"`
	User    *model.UserInfo `json:"user,omitempty"`
	Role    model.Role      `json:"role,omitempty"`
	Test    *TestView       `json:"test,omitempty"`
	Result  *ResultView     `json:"result,omitempty"`
	History *HistoryView    `json:"history,omitempty"`
	Message string          `json:"message,omitempty"`
}

// TestView is the questionnaire screen.
type TestView struct {
	Questions []QuestionView `json:"questions"`
	Answers   disc.Answers   `json:"answers"`
	Points    []int          `json:"points"`
	Answered  int            `json:"answered"`
	Total     int            `json:"total"`
	Progress  float64        `json:"progress"`
	CanSubmit bool           `json:"can_submit"`
}

// QuestionView is one question with its options in dimension order.
type QuestionView struct {
	Index    int          `json:"index"`
	Category string       `json:"category"`
	Options  []OptionView `json:"options"`
}

// OptionView is a statement attributed to one dimension.
type OptionView struct {
	Dimension disc.Dimension `json:"dimension"`
	Text      string         `json:"text"`
}

// ResultView is the results screen.
type ResultView struct {
	Scores     disc.Scores      `json:"scores"`
	Profile    string           `json:"profile"`
	ProfileKey string           `json:"profile_key,omitempty"`
	Found      bool             `json:"found"`
	Ranked     []disc.Dimension `json:"ranked"`
	MaxScore   int              `json:"max_score"`
	Chart      []ChartBar       `json:"chart"`
	Highlights []Highlight      `json:"highlights"`
}

// ChartBar is one bar of the score chart.
type ChartBar struct {
	Dimension disc.Dimension `json:"dimension"`
	Label     string         `json:"label"`
	Score     int            `json:"score"`
	Color     string         `json:"color"`
}

// Highlight describes one of the top-ranked dimensions.
type Highlight struct {
	Dimension disc.Dimension `json:"dimension"`
	disc.DimensionInfo
}

// HistoryView lists stored results.
type HistoryView struct {
	Results []model.TestResult `json:"results"`
	Count   int                `json:"count"`
	Message string             `json:"message,omitempty"`
}

// Presenter renders catalog-backed screen data.
type Presenter struct {
	catalog  *disc.Catalog
	resolver *disc.Resolver
}

// NewPresenter creates a Presenter over catalog.
func NewPresenter(catalog *disc.Catalog) *Presenter {
	return &Presenter{catalog: catalog, resolver: catalog.Resolver()}
}

// Catalog returns the catalog the presenter renders.
func (p *Presenter) Catalog() *disc.Catalog {
	return p.catalog
}

// Questions lists the questionnaire in display form.
func (p *Presenter) Questions() []QuestionView {
	out := make([]QuestionView, len(p.catalog.Questions))
	for i, q := range p.catalog.Questions {
		opts := make([]OptionView, 0, len(disc.Dimensions))
		for _, d := range disc.Dimensions {
			opts = append(opts, OptionView{Dimension: d, Text: q.Options.Get(d)})
		}
		out[i] = QuestionView{Index: i, Category: q.Category, Options: opts}
	}
	return out
}

// Test renders the questionnaire screen for answers.
func (p *Presenter) Test(answers disc.Answers) *TestView {
	n := p.catalog.QuestionCount()
	if answers == nil {
		answers = disc.Answers{}
	}
	return &TestView{
		Questions: p.Questions(),
		Answers:   answers,
		Points:    append([]int(nil), disc.Points[:]...),
		Answered:  answers.Answered(),
		Total:     n,
		Progress:  answers.Progress(n),
		CanSubmit: answers.Complete(n),
	}
}

// Result renders scores with their resolved profile, chart and top-2 descriptions.
func (p *Presenter) Result(scores disc.Scores) *ResultView {
	res := p.resolver.Resolve(scores)

	chart := make([]ChartBar, 0, len(disc.Dimensions))
	for _, d := range disc.Dimensions {
		info := p.catalog.Dimensions[d]
		chart = append(chart, ChartBar{
			Dimension: d,
			Label:     info.Label,
			Score:     scores.Get(d),
			Color:     info.Color,
		})
	}

	highlights := make([]Highlight, 0, 2)
	for i, info := range p.catalog.Highlights(res.Ranked) {
		highlights = append(highlights, Highlight{Dimension: res.Ranked[i], DimensionInfo: info})
	}

	return &ResultView{
		Scores:     scores,
		Profile:    res.Name,
		ProfileKey: res.Key,
		Found:      res.Found,
		Ranked:     res.Ranked,
		MaxScore:   p.catalog.QuestionCount() * disc.Points[0],
		Chart:      chart,
		Highlights: highlights,
	}
}
