// Package api provides the HTTP API server and handlers for the mahabba atlas.
package api

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mahabbalab/mahabba-server/internal/logger"
	"github.com/mahabbalab/mahabba-server/internal/ratelimit"
	"github.com/mahabbalab/mahabba-server/internal/service"
)

// Version is reported in the OpenAPI document and the health check.
const Version = "1.0.0"

// compressedTypes are the content types the compressor will encode.
var compressedTypes = []string{
	"application/json",
	"text/csv",
	"text/plain",
	"text/html",
}

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	Limiter     *ratelimit.KeyedRateLimiter // nil disables rate limiting
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	atlas   *service.AtlasService
	router  *chi.Mux
	api     huma.API
	limiter *ratelimit.KeyedRateLimiter
	logger  *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(atlas *service.AtlasService, opts Options, log *logger.Logger) *Server {
	s := &Server{
		atlas:   atlas,
		router:  chi.NewRouter(),
		limiter: opts.Limiter,
		logger:  log,
	}

	// Middleware must be in place before huma mounts its own routes.
	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Mahabba API", Version)
	humaConfig.Info.Description = "Love-index aggregates over a corpus of historical texts, per century AH."
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Encoding", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	compressor := middleware.NewCompressor(5, compressedTypes...)
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	s.router.Use(compressor.Handler)

	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerViewRoutes()
	s.registerAtlasRoutes()
	s.registerSearchRoutes()

	// CSV export bypasses huma so the body is streamed as text/csv.
	s.router.Get("/api/v1/views/{view}/records.csv", s.handleExportRecords)
}
