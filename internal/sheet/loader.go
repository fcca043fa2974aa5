// Package sheet reads survey responses from spreadsheet files into a
// services.ResponseTable. Column 0 holds the respondent identifier, every
// following column is one question.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/soaringjerry/kuesioner/internal/services"
)

// FileSource loads the table from a .xlsx or .csv file on every call.
type FileSource struct {
	Path string
	// Sheet selects the worksheet of an xlsx file; empty means the first.
	Sheet string
	// Questions, when set, must all be present as headers.
	Questions []string
	Log       *zap.Logger
}

func (s *FileSource) Name() string { return s.Path }

// Report describes cells that did not make it into the table as answers.
type Report struct {
	Rows         int
	Blank        int
	Unrecognized int
	Extra        int
}

func (s *FileSource) LoadTable(ctx context.Context) (*services.ResponseTable, error) {
	t, _, err := s.Load(ctx)
	return t, err
}

// Load reads the file and returns the table with a report of skipped cells.
func (s *FileSource) Load(ctx context.Context) (*services.ResponseTable, Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, Report{}, err
	}
	records, err := s.readRecords()
	if err != nil {
		return nil, Report{}, err
	}
	t, rep, err := Build(records)
	if err != nil {
		return nil, rep, err
	}
	if len(s.Questions) > 0 {
		if err := t.RequireQuestions(s.Questions); err != nil {
			return nil, rep, err
		}
	}
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	if rep.Unrecognized > 0 || rep.Extra > 0 {
		log.Warn("cells ignored while loading responses",
			zap.String("path", s.Path),
			zap.Int("unrecognized", rep.Unrecognized),
			zap.Int("extra", rep.Extra))
	}
	log.Debug("loaded responses",
		zap.String("path", s.Path),
		zap.Int("rows", t.Rows()),
		zap.Int("questions", t.Columns()),
		zap.Int("blank", rep.Blank))
	return t, rep, nil
}

func (s *FileSource) readRecords() ([][]string, error) {
	if s.Path == "" {
		return nil, services.NewLoadError("no response file configured", nil)
	}
	switch ext := strings.ToLower(filepath.Ext(s.Path)); ext {
	case ".xlsx", ".xlsm":
		return readXLSX(s.Path, s.Sheet)
	case ".csv":
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, services.NewLoadError("open "+s.Path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, services.NewLoadError(fmt.Sprintf("unsupported file type %q", ext), nil)
	}
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, services.NewLoadError("open "+path, err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, services.NewLoadError(path+" has no worksheets", nil)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, services.NewLoadError(fmt.Sprintf("read sheet %q", sheet), err)
	}
	return rows, nil
}

// ReadCSV reads all records from r. Rows may have differing lengths.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, services.NewLoadError("parse csv", err)
	}
	return records, nil
}

// Build turns raw records (header first) into a table. Short rows are padded
// with missing answers, fully blank rows are dropped, and cells outside the
// scale become missing.
func Build(records [][]string) (*services.ResponseTable, Report, error) {
	var rep Report
	if len(records) == 0 {
		return nil, rep, services.NewSchemaError("file has no header row")
	}
	header := records[0]
	if len(header) < 2 {
		return nil, rep, services.NewSchemaError("header needs a respondent column and at least one question")
	}
	questions := header[1:]
	rows := make([]services.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		row := services.Row{
			Respondent: respondentID(rec, i),
			Answers:    make([]services.Label, len(questions)),
		}
		for j := range questions {
			if j+1 >= len(rec) || strings.TrimSpace(rec[j+1]) == "" {
				rep.Blank++
				continue
			}
			l, ok := services.ParseLabel(rec[j+1])
			if !ok {
				rep.Unrecognized++
				continue
			}
			row.Answers[j] = l
		}
		if extra := len(rec) - len(header); extra > 0 {
			rep.Extra += countNonBlank(rec[len(header):])
		}
		rows = append(rows, row)
	}
	rep.Rows = len(rows)
	t, err := services.NewResponseTable(questions, rows)
	if err != nil {
		return nil, rep, err
	}
	return t, rep, nil
}

func respondentID(rec []string, i int) string {
	if len(rec) > 0 {
		if id := strings.TrimSpace(rec[0]); id != "" {
			return id
		}
	}
	return fmt.Sprintf("row-%d", i+1)
}

func blankRecord(rec []string) bool {
	return countNonBlank(rec) == 0
}

func countNonBlank(cells []string) int {
	n := 0
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}
