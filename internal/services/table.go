package services

import (
	"fmt"
	"strings"
)

// Row is one respondent's answers, aligned with the table's questions.
type Row struct {
	Respondent string
	Answers    []Label
}

// ResponseTable is an immutable grid of Likert answers. Question order is
// the source column order.
type ResponseTable struct {
	questions   []string
	respondents []string
	cells       [][]Label
}

// NewResponseTable validates the shape of rows against questions and copies
// them. Question names must be non-blank and unique.
func NewResponseTable(questions []string, rows []Row) (*ResponseTable, error) {
	if len(questions) == 0 {
		return nil, NewSchemaError("no question columns")
	}
	seen := make(map[string]struct{}, len(questions))
	qs := make([]string, len(questions))
	for i, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" {
			return nil, NewSchemaError(fmt.Sprintf("question column %d has no header", i+1))
		}
		if _, dup := seen[q]; dup {
			return nil, NewSchemaError(fmt.Sprintf("duplicate question column %q", q))
		}
		seen[q] = struct{}{}
		qs[i] = q
	}
	if len(rows) == 0 {
		return nil, NewSchemaError("no respondent rows")
	}
	t := &ResponseTable{
		questions:   qs,
		respondents: make([]string, len(rows)),
		cells:       make([][]Label, len(rows)),
	}
	for i, r := range rows {
		if len(r.Answers) != len(qs) {
			return nil, NewSchemaError(fmt.Sprintf("row %d has %d answers, want %d", i+1, len(r.Answers), len(qs)))
		}
		t.respondents[i] = r.Respondent
		t.cells[i] = append([]Label(nil), r.Answers...)
	}
	return t, nil
}

// Questions returns a copy of the question identifiers in column order.
func (t *ResponseTable) Questions() []string {
	return append([]string(nil), t.questions...)
}

// Respondents returns a copy of the respondent identifiers in row order.
func (t *ResponseTable) Respondents() []string {
	return append([]string(nil), t.respondents...)
}

func (t *ResponseTable) Rows() int    { return len(t.cells) }
func (t *ResponseTable) Columns() int { return len(t.questions) }

// Size counts every cell, missing ones included.
func (t *ResponseTable) Size() int { return t.Rows() * t.Columns() }

func (t *ResponseTable) Cell(row, col int) Label { return t.cells[row][col] }

// Column returns a copy of one question's answers in row order.
func (t *ResponseTable) Column(col int) []Label {
	out := make([]Label, len(t.cells))
	for i, row := range t.cells {
		out[i] = row[col]
	}
	return out
}

// Each visits every cell in row-major order.
func (t *ResponseTable) Each(fn func(row, col int, l Label)) {
	for i, row := range t.cells {
		for j, l := range row {
			fn(i, j, l)
		}
	}
}

// Answered counts non-missing cells.
func (t *ResponseTable) Answered() int {
	n := 0
	t.Each(func(_, _ int, l Label) {
		if !l.Missing() {
			n++
		}
	})
	return n
}

// RequireQuestions fails with a schema error naming the first expected
// question that is absent.
func (t *ResponseTable) RequireQuestions(expected []string) error {
	have := make(map[string]struct{}, len(t.questions))
	for _, q := range t.questions {
		have[q] = struct{}{}
	}
	var missing []string
	for _, q := range expected {
		if _, ok := have[q]; !ok {
			missing = append(missing, q)
		}
	}
	if len(missing) > 0 {
		return NewSchemaError("missing question columns: " + strings.Join(missing, ", "))
	}
	return nil
}
