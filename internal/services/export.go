package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

const (
	ExportWide = "wide"
	ExportLong = "long"
)

// ExportCSV renders t in the named format. An empty format means wide.
func ExportCSV(t *ResponseTable, format string) ([]byte, error) {
	switch format {
	case "", ExportWide:
		return ExportWideCSV(t)
	case ExportLong:
		return ExportLongCSV(t)
	}
	return nil, NewInvalidError("unsupported export format " + strconv.Quote(format))
}

// ExportWideCSV writes one row per respondent with each question's score.
// Missing answers are left blank.
func ExportWideCSV(t *ResponseTable) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := append([]string{"respondent_id"}, t.questions...)
	header = append(header, "total_score")
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, row := range t.cells {
		rec := make([]string, 0, len(row)+2)
		rec = append(rec, t.respondents[i])
		total := 0
		for _, l := range row {
			v, ok := l.Score()
			if !ok {
				rec = append(rec, "")
				continue
			}
			total += v
			rec = append(rec, strconv.Itoa(v))
		}
		rec = append(rec, strconv.Itoa(total))
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportLongCSV writes one row per answered cell.
func ExportLongCSV(t *ResponseTable) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"respondent_id", "question", "label", "score", "sentiment"}); err != nil {
		return nil, err
	}
	var werr error
	t.Each(func(row, col int, l Label) {
		if werr != nil || l.Missing() {
			return
		}
		score, _ := l.Score()
		sent, _ := l.Sentiment()
		werr = w.Write([]string{t.respondents[row], t.questions[col], string(l), strconv.Itoa(score), string(sent)})
	})
	if werr != nil {
		return nil, werr
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
