package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/coredoc/internal/config"
	"github.com/dgallion1/coredoc/internal/parser"
	"github.com/dgallion1/coredoc/internal/pipeline"
	"github.com/dgallion1/coredoc/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for coredoc.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	docs         *store.DocumentStore
	parsers      parser.Options
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, docs *store.DocumentStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		docs:         docs,
		parsers:      parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/process", s.handleProcess)
		r.Get("/api/stats/processing", s.handleProcessingStats)

		r.Route("/api/v1/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/upload", s.handleUpload)
			r.Get("/processing/{processingID}", s.handleProcessingStatus)

			r.Route("/{docID}", func(r chi.Router) {
				r.Get("/", s.handleGetDocument)
				r.Delete("/", s.handleDeleteDocument)
				r.Get("/stats", s.handleDocumentStats)
				r.Get("/search", s.handleSearch)
				r.Get("/chunks/{chunkID}", s.handleGetChunk)
			})
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
