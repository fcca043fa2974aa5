package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	table *ResponseTable
	err   error
	loads int
}

func (s *stubSource) LoadTable(ctx context.Context) (*ResponseTable, error) {
	s.loads++
	return s.table, s.err
}

func (s *stubSource) Name() string { return "stub.xlsx" }

func TestSummarize(t *testing.T) {
	sum := Summarize(scenarioTable(t))

	assert.Equal(t, 3, sum.Respondents)
	assert.Equal(t, 2, sum.Questions)
	assert.Equal(t, 6, sum.Answered)
	require.NotNil(t, sum.MeanScore)
	assert.Equal(t, 4.17, *sum.MeanScore)

	require.Len(t, sum.Distribution, ScalePoints)
	counts := map[Label]int{}
	for _, lc := range sum.Distribution {
		counts[lc.Label] = lc.Count
	}
	assert.Equal(t, map[Label]int{SS: 1, S: 3, CS: 0, CTS: 1, TS: 0, STS: 1}, counts)
	assert.Equal(t, 50.0, sum.Distribution[1].Percent)

	assert.Equal(t, []SentimentCount{
		{Sentiment: Positif, Count: 4, Percent: 66.7},
		{Sentiment: Netral, Count: 0, Percent: 0},
		{Sentiment: Negatif, Count: 2, Percent: 33.3},
	}, sum.Sentiment)

	require.Len(t, sum.Items, 2)
	q1 := sum.Items[0]
	assert.Equal(t, "Q1", q1.ID)
	assert.Equal(t, 3, q1.Answered)
	require.NotNil(t, q1.Mean)
	assert.Equal(t, 4.67, *q1.Mean)
	assert.Equal(t, &BoxStats{Min: 3, Q1: 4, Median: 5, Q3: 5.5, Max: 6}, q1.Box)

	assert.Equal(t, 3, sum.AlphaN)
	assert.InDelta(t, 0.930, sum.Alpha, 0.001)
}

func TestSummarizeEmptyQuestion(t *testing.T) {
	table := newTable(t, []string{"Q1", "Q2"}, [][]Label{
		{NoAnswer, TS},
		{NoAnswer, CS},
	})
	sum := Summarize(table)
	item := sum.Items[0]
	assert.Nil(t, item.Mean)
	assert.Nil(t, item.Box)
	assert.Equal(t, 2, item.Missing)
	assert.Zero(t, sum.AlphaN)
}

func TestSummaryServiceUsesSourceName(t *testing.T) {
	src := &stubSource{table: scenarioTable(t)}
	sum, err := NewSummaryService(src).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stub.xlsx", sum.Source)
}

func TestSummaryServiceLoadError(t *testing.T) {
	src := &stubSource{err: NewLoadError("open data_kuesioner.xlsx", assert.AnError)}
	_, err := NewSummaryService(src).Summary(context.Background())
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrorLoad))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, quantile(sorted, 0.25))
	assert.Equal(t, 2.5, quantile(sorted, 0.5))
	assert.Equal(t, 3.25, quantile(sorted, 0.75))
	assert.Equal(t, 5.0, quantile([]float64{5}, 0.5))
}
