package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/metrics"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docoutline.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	rec          *metrics.Recorder
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, rec *metrics.Recorder, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		rec:          rec,
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
	r.Method(http.MethodGet, "/metrics", s.rec.HTTPHandler())

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/outline", s.handleSubmit)
		r.Route("/api/outline/{jobID}", func(r chi.Router) {
			r.Get("/", s.handleResult)
			r.Get("/status", s.handleStatus)
			r.Get("/anchors/{doc}", s.handleAnchors)
			r.Get("/pages/{page}/params", s.handlePageParams)
		})
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
