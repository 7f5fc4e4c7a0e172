package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mahabbalab/mahabba-server/internal/domain"
	"github.com/mahabbalab/mahabba-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/views/{view}/search",
		Summary:     "Search records",
		Description: "Runs a view and searches its records by title, author and identifier, with optional genre and century filters",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput contains parameters for searching a view's records.
type SearchInput struct {
	View    string `path:"view" doc:"View name"`
	Q       string `query:"q" doc:"Free text; empty matches every record"`
	Genre   string `query:"genre" doc:"Genre code filter (BIO, DEV, PHI, POE, RHE, THE)"`
	Century int    `query:"century" minimum:"0" doc:"Century AH filter, 0 for all"`
	Limit   int    `query:"limit" default:"20" minimum:"1" maximum:"200" doc:"Page size"`
	Offset  int    `query:"offset" minimum:"0" doc:"Hits to skip"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.Result
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.Params{
		Query:   strings.TrimSpace(input.Q),
		Genre:   domain.GenreCode(strings.ToUpper(strings.TrimSpace(input.Genre))),
		Century: input.Century,
		Limit:   input.Limit,
		Offset:  input.Offset,
	}

	result, err := s.atlas.Search(ctx, input.View, params)
	if err != nil {
		return nil, mapError(err)
	}
	return &SearchOutput{Body: result}, nil
}
