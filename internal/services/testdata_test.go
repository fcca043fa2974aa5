package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTable builds a table with respondents R1..Rn from a grid of labels.
func newTable(t *testing.T, questions []string, grid [][]Label) *ResponseTable {
	t.Helper()
	rows := make([]Row, len(grid))
	for i, answers := range grid {
		rows[i] = Row{Respondent: fmt.Sprintf("R%d", i+1), Answers: answers}
	}
	table, err := NewResponseTable(questions, rows)
	require.NoError(t, err)
	return table
}

// scenarioTable is the three respondent, two question example used across
// the aggregation tests.
func scenarioTable(t *testing.T) *ResponseTable {
	return newTable(t, []string{"Q1", "Q2"}, [][]Label{
		{SS, S},
		{S, S},
		{CTS, STS},
	})
}
