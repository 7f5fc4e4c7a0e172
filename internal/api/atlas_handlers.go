package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/mahabbalab/mahabba-server/internal/dataset"
	"github.com/mahabbalab/mahabba-server/internal/domain"
	"github.com/mahabbalab/mahabba-server/internal/http/response"
	"github.com/mahabbalab/mahabba-server/internal/pipeline"
	"github.com/mahabbalab/mahabba-server/internal/service"
)

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listViews",
		Method:      http.MethodGet,
		Path:        "/api/v1/views",
		Summary:     "List views",
		Description: "Returns the configured views. The first one is the default.",
		Tags:        []string{"Views"},
	}, s.handleListViews)

	huma.Register(s.api, huma.Operation{
		OperationID: "detectColumns",
		Method:      http.MethodGet,
		Path:        "/api/v1/columns",
		Summary:     "Detect columns",
		Description: "Reads the dataset headers and reports which column serves each role under a view's candidate names",
		Tags:        []string{"Views"},
	}, s.handleDetectColumns)
}

func (s *Server) registerAtlasRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getAtlas",
		Method:      http.MethodGet,
		Path:        "/api/v1/views/{view}/atlas",
		Summary:     "Run a view",
		Description: "Loads the dataset, builds canonical records and returns them with the pooled and per-genre century series",
		Tags:        []string{"Atlas"},
	}, s.handleGetAtlas)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAggregates",
		Method:      http.MethodGet,
		Path:        "/api/v1/views/{view}/aggregates",
		Summary:     "Aggregate a view",
		Description: "Same as the atlas without the record list",
		Tags:        []string{"Atlas"},
	}, s.handleGetAggregates)
}

// ViewsResponse lists the configured views.
type ViewsResponse struct {
	Default string            `json:"default" doc:"Name of the default view"`
	Views   []pipeline.Policy `json:"views" doc:"Views in configuration order"`
}

// ViewsOutput wraps the views response for Huma.
type ViewsOutput struct {
	Body ViewsResponse
}

// ColumnsInput selects the view whose candidates are used.
type ColumnsInput struct {
	View string `query:"view" doc:"View name (default view when empty)"`
}

// ColumnsOutput wraps the column report for Huma.
type ColumnsOutput struct {
	Body *service.ColumnReport
}

// ViewInput addresses a view by name.
type ViewInput struct {
	View string `path:"view" doc:"View name"`
}

// AtlasOutput wraps a full run for Huma.
type AtlasOutput struct {
	Body *service.Atlas
}

// AggregatesResponse is a run without its records.
type AggregatesResponse struct {
	RunID   string               `json:"run_id" doc:"Identifier of this run, as logged"`
	View    pipeline.Policy      `json:"view"`
	Source  string               `json:"source" doc:"Dataset location"`
	Pooled  []domain.Bucket      `json:"pooled" doc:"All genres, one bucket per populated century"`
	Series  []domain.GenreSeries `json:"series" doc:"Six series in display order"`
	Summary service.Summary      `json:"summary"`
}

// AggregatesOutput wraps the aggregates response for Huma.
type AggregatesOutput struct {
	Body AggregatesResponse
}

func (s *Server) handleListViews(_ context.Context, _ *struct{}) (*ViewsOutput, error) {
	views := s.atlas.Views()
	resp := ViewsResponse{Views: views}
	if len(views) > 0 {
		resp.Default = views[0].Name
	}
	return &ViewsOutput{Body: resp}, nil
}

func (s *Server) handleDetectColumns(ctx context.Context, input *ColumnsInput) (*ColumnsOutput, error) {
	report, err := s.atlas.Columns(ctx, input.View)
	if err != nil {
		return nil, mapError(err)
	}
	return &ColumnsOutput{Body: report}, nil
}

func (s *Server) handleGetAtlas(ctx context.Context, input *ViewInput) (*AtlasOutput, error) {
	atlas, err := s.atlas.Run(ctx, input.View)
	if err != nil {
		return nil, mapError(err)
	}
	return &AtlasOutput{Body: atlas}, nil
}

func (s *Server) handleGetAggregates(ctx context.Context, input *ViewInput) (*AggregatesOutput, error) {
	atlas, err := s.atlas.Run(ctx, input.View)
	if err != nil {
		return nil, mapError(err)
	}

	return &AggregatesOutput{
		Body: AggregatesResponse{
			RunID:   atlas.RunID,
			View:    atlas.View,
			Source:  atlas.Source,
			Pooled:  atlas.Pooled,
			Series:  atlas.Series,
			Summary: atlas.Summary,
		},
	}, nil
}

// handleExportRecords streams the canonical records of a view as CSV.
func (s *Server) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")

	res, err := s.atlas.Records(r.Context(), view)
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+view+`.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := dataset.WriteRecords(w, res.Records); err != nil {
		s.logger.Error("Failed to write CSV export", "error", err, "view", view)
	}
}
