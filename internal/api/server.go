// Package api exposes the import pipeline over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lipidflow/app"
	"lipidflow/domain/core"
	"lipidflow/internal"
	"lipidflow/ports"
)

// Server is the HTTP surface over the import service and dataset store
type Server struct {
	router  *chi.Mux
	service *app.ImportService
	repo    ports.DatasetRepository
	logger  *internal.Logger
}

// NewServer creates a server. repo may be nil, which disables the dataset
// query endpoints.
func NewServer(service *app.ImportService, repo ports.DatasetRepository, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		repo:    repo,
		logger:  logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/imports", s.handleImport)
		if s.repo != nil {
			r.Get("/imports", s.handleListDatasets)
			r.Get("/imports/{id}", s.handleGetDataset)
			r.Get("/imports/{id}/report", s.handleGetReport)
			r.Get("/imports/{id}/groups/statistics", s.handleGroupStatistics)
		}
	})
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	case core.IsResolutionError(err):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
