package services

import (
	"math"
	"strconv"
)

// Stat is a named value. Aggregations return them in table order so that
// ArgMax and ArgMin can break ties on position.
type Stat struct {
	Key   string
	Value float64
}

// ArgMax picks the largest value, the earliest one on ties. NaN values are
// skipped; ok is false when nothing remains.
func ArgMax(stats []Stat) (Stat, bool) {
	return pick(stats, func(a, b float64) bool { return a > b })
}

// ArgMin picks the smallest value, the earliest one on ties.
func ArgMin(stats []Stat) (Stat, bool) {
	return pick(stats, func(a, b float64) bool { return a < b })
}

func pick(stats []Stat, better func(a, b float64) bool) (Stat, bool) {
	var best Stat
	found := false
	for _, s := range stats {
		if math.IsNaN(s.Value) {
			continue
		}
		if !found || better(s.Value, best.Value) {
			best = s
			found = true
		}
	}
	return best, found
}

// CountByColumn counts cells equal to label per question.
func CountByColumn(t *ResponseTable, label Label) []Stat {
	counts := make([]float64, t.Columns())
	t.Each(func(_, col int, l Label) {
		if l == label && !l.Missing() {
			counts[col]++
		}
	})
	out := make([]Stat, t.Columns())
	for i, q := range t.questions {
		out[i] = Stat{Key: q, Value: counts[i]}
	}
	return out
}

// LabelTotals counts each label over the whole table. Labels appear in the
// order they are first met scanning rows left to right; absent labels are
// omitted.
func LabelTotals(t *ResponseTable) []Stat {
	index := map[Label]int{}
	var out []Stat
	t.Each(func(_, _ int, l Label) {
		if l.Missing() {
			return
		}
		i, ok := index[l]
		if !ok {
			i = len(out)
			index[l] = i
			out = append(out, Stat{Key: string(l)})
		}
		out[i].Value++
	})
	return out
}

// SentimentTotals counts non-missing cells per sentiment bucket, in
// Sentiments order.
func SentimentTotals(t *ResponseTable) []Stat {
	counts := map[Sentiment]float64{}
	t.Each(func(_, _ int, l Label) {
		if s, ok := l.Sentiment(); ok {
			counts[s]++
		}
	})
	out := make([]Stat, 0, len(Sentiments))
	for _, s := range Sentiments {
		out = append(out, Stat{Key: string(s), Value: counts[s]})
	}
	return out
}

// ColumnMeans averages scores per question. A column with no answers has a
// NaN mean.
func ColumnMeans(t *ResponseTable) []Stat {
	sums := make([]float64, t.Columns())
	ns := make([]int, t.Columns())
	t.Each(func(_, col int, l Label) {
		if v, ok := l.Score(); ok {
			sums[col] += float64(v)
			ns[col]++
		}
	})
	out := make([]Stat, t.Columns())
	for i, q := range t.questions {
		mean := math.NaN()
		if ns[i] > 0 {
			mean = sums[i] / float64(ns[i])
		}
		out[i] = Stat{Key: q, Value: mean}
	}
	return out
}

// MeanScore averages scores over every answered cell.
func MeanScore(t *ResponseTable) (float64, bool) {
	var sum float64
	n := 0
	t.Each(func(_, _ int, l Label) {
		if v, ok := l.Score(); ok {
			sum += float64(v)
			n++
		}
	})
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Percent is part/whole*100 rounded half-to-even to one decimal.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return roundTo(part/whole*100, 1)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}

func formatPercent(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
func formatMean(v float64) string    { return strconv.FormatFloat(roundTo(v, 2), 'f', 2, 64) }
func formatCount(v float64) string   { return strconv.Itoa(int(v)) }
