package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TableSource yields the response table a query runs against.
type TableSource interface {
	LoadTable(ctx context.Context) (*ResponseTable, error)
	Name() string
}

// Run is one answered or failed query.
type Run struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Source    string    `json:"source"`
	Answer    string    `json:"answer,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RunRecorder persists runs. A nil recorder disables history.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *Run) error
}

type QueryService struct {
	source   TableSource
	recorder RunRecorder
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewQueryService(source TableSource, recorder RunRecorder, log *zap.Logger) *QueryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueryService{
		source:   source,
		recorder: recorder,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Answer loads the table and answers the identifier raw. Unknown identifiers
// fail before the source is touched.
func (s *QueryService) Answer(ctx context.Context, raw string) (string, error) {
	id, err := ParseQueryID(raw)
	if err != nil {
		s.log.Warn("rejected query", zap.String("query", raw))
		return "", err
	}
	table, err := s.source.LoadTable(ctx)
	if err != nil {
		s.record(ctx, id, "", err)
		return "", err
	}
	answer, err := Answer(table, id)
	s.record(ctx, id, answer, err)
	if err != nil {
		return "", err
	}
	s.log.Debug("answered query",
		zap.String("query", string(id)),
		zap.Int("rows", table.Rows()),
		zap.Int("columns", table.Columns()))
	return answer, nil
}

func (s *QueryService) record(ctx context.Context, id QueryID, answer string, qerr error) {
	if s.recorder == nil {
		return
	}
	run := &Run{
		ID:        s.newID(),
		Query:     string(id),
		Source:    s.source.Name(),
		Answer:    answer,
		CreatedAt: s.now(),
	}
	if qerr != nil {
		run.Error = qerr.Error()
	}
	if err := s.recorder.RecordRun(ctx, run); err != nil {
		s.log.Warn("record run", zap.String("run_id", run.ID), zap.Error(err))
	}
}
