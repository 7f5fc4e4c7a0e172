// Package service runs the pipeline for a named view and shapes the output
// for the API and the CLI.
package service

import (
	"context"
	"time"

	"github.com/mahabbalab/mahabba-server/internal/aggregate"
	"github.com/mahabbalab/mahabba-server/internal/columns"
	"github.com/mahabbalab/mahabba-server/internal/config"
	"github.com/mahabbalab/mahabba-server/internal/dataset"
	"github.com/mahabbalab/mahabba-server/internal/domain"
	domainerrors "github.com/mahabbalab/mahabba-server/internal/errors"
	"github.com/mahabbalab/mahabba-server/internal/id"
	"github.com/mahabbalab/mahabba-server/internal/logger"
	"github.com/mahabbalab/mahabba-server/internal/pipeline"
	"github.com/mahabbalab/mahabba-server/internal/search"
)

// AtlasService executes pipeline runs. Every call loads the dataset afresh;
// nothing is cached between runs, so a service value is safe for concurrent use.
type AtlasService struct {
	source dataset.Source
	views  *config.Views
	logger *logger.Logger
}

// NewAtlasService creates a new atlas service.
func NewAtlasService(source dataset.Source, views *config.Views, log *logger.Logger) *AtlasService {
	return &AtlasService{
		source: source,
		views:  views,
		logger: log,
	}
}

// Atlas is the complete output of one run.
type Atlas struct {
	RunID   string               `json:"run_id"`
	View    pipeline.Policy      `json:"view"`
	Source  string               `json:"source"`
	Columns map[string]string    `json:"columns"`
	Records []domain.Record      `json:"records"`
	Pooled  []domain.Bucket      `json:"pooled"`
	Series  []domain.GenreSeries `json:"series"`
	Summary Summary              `json:"summary"`
}

// Summary describes a run in counts.
type Summary struct {
	Rows       int                  `json:"rows"`
	Records    int                  `json:"records"`
	Dropped    int                  `json:"dropped"`
	Stages     pipeline.StageCounts `json:"stages"`
	Genres     []GenreCount         `json:"genres"`
	CenturyMin int                  `json:"century_min,omitempty"`
	CenturyMax int                  `json:"century_max,omitempty"`
	Mean       float64              `json:"mean"`
}

// GenreCount is the number of records of one genre.
type GenreCount struct {
	Genre domain.GenreCode `json:"genre"`
	Label string           `json:"label"`
	Count int              `json:"count"`
}

// ColumnReport is the column detection result for one view, without records.
type ColumnReport struct {
	Source   string            `json:"source"`
	View     string            `json:"view"`
	Headers  []string          `json:"headers"`
	Detected map[string]string `json:"detected"`
	Missing  []domain.Role     `json:"missing"`
	Rows     int               `json:"rows"`
}

// Views returns the configured views in order.
func (s *AtlasService) Views() []pipeline.Policy {
	return s.views.All()
}

// View returns the named view. An empty name selects the default view.
func (s *AtlasService) View(name string) (pipeline.Policy, error) {
	if name == "" {
		return s.views.Default(), nil
	}
	return s.views.Get(name)
}

// Run loads the dataset and builds the atlas for viewName.
func (s *AtlasService) Run(ctx context.Context, viewName string) (*Atlas, error) {
	policy, err := s.View(viewName)
	if err != nil {
		return nil, err
	}

	runID := id.NewRun()
	log := s.logger.WithRun(runID, policy.Name)
	start := time.Now()

	res, err := s.build(ctx, policy)
	if err != nil {
		logFailure(log, err)
		return nil, err
	}

	agg := aggregate.Compute(res.Records)

	atlas := &Atlas{
		RunID:   runID,
		View:    policy,
		Source:  res.Source,
		Columns: res.Columns.Detected(),
		Records: res.Records,
		Pooled:  agg.Pooled,
		Series:  agg.Series,
		Summary: Summarize(res),
	}

	log.Info("pipeline run",
		"rows", res.Stages.Rows,
		"records", len(res.Records),
		"dropped", res.Stages.Dropped(),
		"duration", time.Since(start),
	)
	log.Debug("stage counts",
		"genre_resolved", res.Stages.GenreResolved,
		"century_resolved", res.Stages.CenturyResolved,
		"in_window", res.Stages.InWindow,
		"score_resolved", res.Stages.ScoreResolved,
	)

	return atlas, nil
}

// Records runs the pipeline without aggregating.
func (s *AtlasService) Records(ctx context.Context, viewName string) (*pipeline.Result, error) {
	policy, err := s.View(viewName)
	if err != nil {
		return nil, err
	}

	res, err := s.build(ctx, policy)
	if err != nil {
		logFailure(s.logger.WithRun(id.NewRun(), policy.Name), err)
		return nil, err
	}
	return res, nil
}

// Columns reports which header serves each role under viewName's candidates.
// Missing required roles are reported, not returned as an error.
func (s *AtlasService) Columns(ctx context.Context, viewName string) (*ColumnReport, error) {
	policy, err := s.View(viewName)
	if err != nil {
		return nil, err
	}

	table, err := pipeline.Load(ctx, s.source)
	if err != nil {
		logFailure(s.logger.WithField("view", policy.Name), err)
		return nil, err
	}

	cols := columns.Resolve(table.Headers, policy.Candidates)
	return &ColumnReport{
		Source:   table.Source,
		View:     policy.Name,
		Headers:  table.Headers,
		Detected: cols.Detected(),
		Missing:  pipeline.MissingRoles(cols, policy),
		Rows:     len(table.Rows),
	}, nil
}

// Search runs the pipeline for viewName and searches its records.
// The index lives only for the duration of the call.
func (s *AtlasService) Search(ctx context.Context, viewName string, params search.Params) (*search.Result, error) {
	if params.Genre != "" && !params.Genre.Valid() {
		return nil, domainerrors.Validationf("unknown genre %q", params.Genre)
	}

	res, err := s.Records(ctx, viewName)
	if err != nil {
		return nil, err
	}

	idx, err := search.New(res.Records)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "build search index")
	}
	defer func() {
		if cerr := idx.Close(); cerr != nil {
			s.logger.Warn("failed to close search index", "error", cerr)
		}
	}()

	if docs, cerr := idx.DocumentCount(); cerr == nil {
		s.logger.Debug("search index built", "view", viewName, "documents", docs)
	}

	return idx.Search(ctx, params)
}

func (s *AtlasService) build(ctx context.Context, policy pipeline.Policy) (*pipeline.Result, error) {
	table, err := pipeline.Load(ctx, s.source)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(table, policy)
}

// logFailure logs a failed run once. Diagnostics are attached to the error
// and rendered by the caller.
func logFailure(log *logger.Logger, err error) {
	diag, ok := pipeline.DiagnosticOf(err)
	if !ok {
		log.WithError(err).Error("pipeline run failed")
		return
	}
	log.WithError(err).Warn("pipeline run failed",
		"kind", diag.Kind,
		"source", diag.Source,
		"missing", diag.Missing,
		"records", diag.Records,
	)
}
