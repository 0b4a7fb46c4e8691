// Package server exposes the optimization pipeline as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/core"
	"github.com/matchiq/matchiq/internal/export"
	"github.com/matchiq/matchiq/internal/ingest"
)

// Server routes HTTP requests to the orchestrator and its collaborators.
type Server struct {
	orch     *core.Orchestrator
	fetcher  *ingest.Fetcher
	exporter *export.Service
	ingest   common.IngestConfig
	logger   *slog.Logger
}

func NewServer(orch *core.Orchestrator, fetcher *ingest.Fetcher, exporter *export.Service, ingestCfg common.IngestConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if ingestCfg.MaxUploadBytes <= 0 {
		ingestCfg.MaxUploadBytes = ingest.DefaultMaxDocumentBytes
	}
	return &Server{
		orch:     orch,
		fetcher:  fetcher,
		exporter: exporter,
		ingest:   ingestCfg,
		logger:   logger,
	}
}

// Handler builds the CORS-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/optimizations", s.handleSubmit)
	mux.HandleFunc("POST /api/optimizations/upload", s.handleUpload)
	mux.HandleFunc("POST /api/optimizations/upload-resume", s.handleUploadResume)
	mux.HandleFunc("POST /api/optimizations/fetch-job", s.handleFetchJob)
	mux.HandleFunc("GET /api/optimizations/export", s.handleExport)
	mux.HandleFunc("GET /api/optimizations/{id}", s.handleGet)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(mux)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encode error", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the error taxonomy to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
