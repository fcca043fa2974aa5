package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponseTableValidation(t *testing.T) {
	cases := []struct {
		name      string
		questions []string
		rows      []Row
	}{
		{"no questions", nil, []Row{{Respondent: "R1"}}},
		{"blank header", []string{"Q1", " "}, []Row{{Answers: []Label{SS, S}}}},
		{"duplicate header", []string{"Q1", "Q1"}, []Row{{Answers: []Label{SS, S}}}},
		{"no rows", []string{"Q1"}, nil},
		{"ragged row", []string{"Q1", "Q2"}, []Row{{Answers: []Label{SS}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewResponseTable(c.questions, c.rows)
			require.Error(t, err)
			assert.True(t, IsCode(err, ErrorSchema), "got %v", err)
		})
	}
}

func TestResponseTableIsImmutable(t *testing.T) {
	answers := []Label{SS, S}
	table, err := NewResponseTable([]string{"Q1", "Q2"}, []Row{{Respondent: "R1", Answers: answers}})
	require.NoError(t, err)

	answers[0] = STS
	assert.Equal(t, SS, table.Cell(0, 0))

	qs := table.Questions()
	qs[0] = "changed"
	assert.Equal(t, []string{"Q1", "Q2"}, table.Questions())

	col := table.Column(1)
	col[0] = TS
	assert.Equal(t, S, table.Cell(0, 1))
}

func TestResponseTableShape(t *testing.T) {
	table := newTable(t, []string{"Q1", "Q2", "Q3"}, [][]Label{
		{SS, NoAnswer, CS},
		{NoAnswer, NoAnswer, TS},
	})
	assert.Equal(t, 2, table.Rows())
	assert.Equal(t, 3, table.Columns())
	assert.Equal(t, 6, table.Size())
	assert.Equal(t, 3, table.Answered())
	assert.Equal(t, []string{"R1", "R2"}, table.Respondents())
}

func TestRequireQuestions(t *testing.T) {
	table := scenarioTable(t)
	require.NoError(t, table.RequireQuestions([]string{"Q2", "Q1"}))

	err := table.RequireQuestions([]string{"Q1", "Q3", "Q17"})
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrorSchema))
	assert.Contains(t, err.Error(), "Q3, Q17")
}
