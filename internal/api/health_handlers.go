package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports liveness and the configured views. The dataset is not read.",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status  string   `json:"status" doc:"Always healthy while the process serves requests"`
	Version string   `json:"version" doc:"API version"`
	Views   []string `json:"views" doc:"Configured view names, default first"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	views := s.atlas.Views()
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name)
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:  "healthy",
			Version: Version,
			Views:   names,
		},
	}, nil
}
