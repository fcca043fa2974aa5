package services

import (
	"strings"
)

// QueryID identifies one of the fixed survey questions q1..q13.
type QueryID string

const (
	Q1  QueryID = "q1"
	Q2  QueryID = "q2"
	Q3  QueryID = "q3"
	Q4  QueryID = "q4"
	Q5  QueryID = "q5"
	Q6  QueryID = "q6"
	Q7  QueryID = "q7"
	Q8  QueryID = "q8"
	Q9  QueryID = "q9"
	Q10 QueryID = "q10"
	Q11 QueryID = "q11"
	Q12 QueryID = "q12"
	Q13 QueryID = "q13"
)

// QueryFunc answers a query with a single formatted line.
type QueryFunc func(t *ResponseTable) (string, error)

type Query struct {
	ID          QueryID `json:"id"`
	Description string  `json:"description"`
	run         QueryFunc
}

var queryOrder = []QueryID{Q1, Q2, Q3, Q4, Q5, Q6, Q7, Q8, Q9, Q10, Q11, Q12, Q13}

var queries = map[QueryID]Query{
	Q1:  {ID: Q1, Description: "most frequent answer across all questions", run: mostFrequentLabel},
	Q2:  {ID: Q2, Description: "least frequent answer across all questions", run: leastFrequentLabel},
	Q3:  {ID: Q3, Description: "question with the most SS answers", run: topQuestionFor(SS)},
	Q4:  {ID: Q4, Description: "question with the most S answers", run: topQuestionFor(S)},
	Q5:  {ID: Q5, Description: "question with the most CS answers", run: topQuestionFor(CS)},
	Q6:  {ID: Q6, Description: "question with the most CTS answers", run: topQuestionFor(CTS)},
	Q7:  {ID: Q7, Description: "question with the most TS answers", run: topQuestionFor(TS)},
	Q8:  {ID: Q8, Description: "question with the most STS answers", run: topQuestionFor(STS)},
	Q9:  {ID: Q9, Description: "questions answered STS at least once", run: questionsWithLabel(STS)},
	Q10: {ID: Q10, Description: "mean score over all answers", run: overallMean},
	Q11: {ID: Q11, Description: "question with the highest mean score", run: extremeQuestionMean(ArgMax)},
	Q12: {ID: Q12, Description: "question with the lowest mean score", run: extremeQuestionMean(ArgMin)},
	Q13: {ID: Q13, Description: "answers per sentiment bucket", run: sentimentBreakdown},
}

// ParseQueryID normalizes case and whitespace and checks the registry.
func ParseQueryID(raw string) (QueryID, error) {
	id := QueryID(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := queries[id]; !ok {
		return "", NewUnknownQueryError(strings.TrimSpace(raw))
	}
	return id, nil
}

// Queries lists the registry in identifier order.
func Queries() []Query {
	out := make([]Query, 0, len(queryOrder))
	for _, id := range queryOrder {
		out = append(out, queries[id])
	}
	return out
}

// Answer runs query id against t.
func Answer(t *ResponseTable, id QueryID) (string, error) {
	q, ok := queries[id]
	if !ok {
		return "", NewUnknownQueryError(string(id))
	}
	if t == nil {
		return "", NewSchemaError("no response table")
	}
	return q.run(t)
}

func mostFrequentLabel(t *ResponseTable) (string, error) {
	return labelLine(t, ArgMax)
}

func leastFrequentLabel(t *ResponseTable) (string, error) {
	return labelLine(t, ArgMin)
}

func labelLine(t *ResponseTable, choose func([]Stat) (Stat, bool)) (string, error) {
	st, ok := choose(LabelTotals(t))
	if !ok {
		return "", NewSchemaError("no answers to count")
	}
	return join("|", st.Key, formatCount(st.Value), formatPercent(Percent(st.Value, float64(t.Size())))), nil
}

func topQuestionFor(label Label) QueryFunc {
	return func(t *ResponseTable) (string, error) {
		st, ok := ArgMax(CountByColumn(t, label))
		if !ok {
			return "", NewSchemaError("no question columns")
		}
		return join("|", st.Key, formatCount(st.Value), formatPercent(Percent(st.Value, float64(t.Rows())))), nil
	}
}

func questionsWithLabel(label Label) QueryFunc {
	return func(t *ResponseTable) (string, error) {
		var parts []string
		for _, st := range CountByColumn(t, label) {
			if st.Value > 0 {
				parts = append(parts, st.Key+":"+formatPercent(Percent(st.Value, float64(t.Rows()))))
			}
		}
		return strings.Join(parts, "|"), nil
	}
}

func overallMean(t *ResponseTable) (string, error) {
	mean, ok := MeanScore(t)
	if !ok {
		return "", NewSchemaError("no scored answers")
	}
	return formatMean(mean), nil
}

func extremeQuestionMean(choose func([]Stat) (Stat, bool)) QueryFunc {
	return func(t *ResponseTable) (string, error) {
		st, ok := choose(ColumnMeans(t))
		if !ok {
			return "", NewSchemaError("no scored answers")
		}
		return st.Key + ":" + formatMean(st.Value), nil
	}
}

func sentimentBreakdown(t *ResponseTable) (string, error) {
	total := float64(t.Size())
	totals := SentimentTotals(t)
	parts := make([]string, 0, len(totals))
	for _, st := range totals {
		parts = append(parts, st.Key+"="+formatCount(st.Value)+":"+formatPercent(Percent(st.Value, total)))
	}
	return strings.Join(parts, "|"), nil
}

func join(sep string, parts ...string) string { return strings.Join(parts, sep) }
