package services

import (
	"context"
	"math"
	"sort"
)

// LabelCount is one bar of a label distribution.
type LabelCount struct {
	Label   Label   `json:"label"`
	Score   int     `json:"score"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// BoxStats is the five-number summary of a question's scores.
type BoxStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

type QuestionSummary struct {
	ID        string       `json:"id"`
	Answered  int          `json:"answered"`
	Missing   int          `json:"missing"`
	Mean      *float64     `json:"mean"`
	Histogram []LabelCount `json:"histogram"`
	Box       *BoxStats    `json:"box,omitempty"`
}

type SentimentCount struct {
	Sentiment Sentiment `json:"sentiment"`
	Count     int       `json:"count"`
	Percent   float64   `json:"percent"`
	// Label is a display name filled in by the HTTP layer for the request locale.
	Label string `json:"label,omitempty"`
}

// Summary is everything a dashboard needs to draw the survey without
// touching the raw table.
type Summary struct {
	Source       string            `json:"source"`
	Respondents  int               `json:"respondents"`
	Questions    int               `json:"questions"`
	Answered     int               `json:"answered"`
	MeanScore    *float64          `json:"mean_score"`
	Distribution []LabelCount      `json:"distribution"`
	Sentiment    []SentimentCount  `json:"sentiment"`
	Items        []QuestionSummary `json:"items"`
	Alpha        float64           `json:"alpha"`
	AlphaN       int               `json:"alpha_n"`
}

type SummaryService struct {
	source TableSource
}

func NewSummaryService(source TableSource) *SummaryService {
	return &SummaryService{source: source}
}

func (s *SummaryService) Summary(ctx context.Context) (*Summary, error) {
	t, err := s.source.LoadTable(ctx)
	if err != nil {
		return nil, err
	}
	sum := Summarize(t)
	sum.Source = s.source.Name()
	return sum, nil
}

// Summarize computes the dashboard summary of t.
func Summarize(t *ResponseTable) *Summary {
	size := float64(t.Size())
	out := &Summary{
		Respondents: t.Rows(),
		Questions:   t.Columns(),
		Answered:    t.Answered(),
	}
	if mean, ok := MeanScore(t); ok {
		out.MeanScore = roundedPtr(mean)
	}

	overall := make(map[Label]int, ScalePoints)
	t.Each(func(_, _ int, l Label) {
		if !l.Missing() {
			overall[l]++
		}
	})
	out.Distribution = labelCounts(overall, size)

	for _, st := range SentimentTotals(t) {
		out.Sentiment = append(out.Sentiment, SentimentCount{
			Sentiment: Sentiment(st.Key),
			Count:     int(st.Value),
			Percent:   Percent(st.Value, size),
		})
	}

	means := ColumnMeans(t)
	for col, q := range t.questions {
		hist := map[Label]int{}
		var scores []float64
		for _, l := range t.Column(col) {
			if v, ok := l.Score(); ok {
				hist[l]++
				scores = append(scores, float64(v))
			}
		}
		item := QuestionSummary{
			ID:        q,
			Answered:  len(scores),
			Missing:   t.Rows() - len(scores),
			Histogram: labelCounts(hist, float64(t.Rows())),
			Box:       boxStats(scores),
		}
		if !math.IsNaN(means[col].Value) {
			item.Mean = roundedPtr(means[col].Value)
		}
		out.Items = append(out.Items, item)
	}

	alpha, n := Reliability(t)
	out.Alpha = roundTo(alpha, 3)
	out.AlphaN = n
	return out
}

func labelCounts(counts map[Label]int, whole float64) []LabelCount {
	out := make([]LabelCount, 0, ScalePoints)
	for _, l := range Labels {
		score, _ := l.Score()
		c := counts[l]
		out = append(out, LabelCount{Label: l, Score: score, Count: c, Percent: Percent(float64(c), whole)})
	}
	return out
}

func boxStats(scores []float64) *BoxStats {
	if len(scores) == 0 {
		return nil
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	return &BoxStats{
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// quantile interpolates linearly between closest ranks of sorted.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func roundedPtr(v float64) *float64 {
	r := roundTo(v, 2)
	return &r
}
