// Package chi exposes the HTTP API: question answering, raw search, passage
// CRUD, health, and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/helmfirth/quarry/internal/domain"
	"github.com/helmfirth/quarry/internal/domain/candidate"
	dompas "github.com/helmfirth/quarry/internal/domain/passage"
	"github.com/helmfirth/quarry/internal/usecase/health"
	"github.com/helmfirth/quarry/internal/usecase/pipeline"
	"github.com/helmfirth/quarry/internal/usecase/retrieve"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest            = "bad_request"
	codeInvalidQuery          = "invalid_query"
	codeUnauthorized          = "unauthorized"
	codePassageNotFound       = "passage_not_found"
	codeAlreadyExists         = "passage_already_exists"
	codeRetrievalUnavailable  = "retrieval_unavailable"
	codeEmbeddingProvider     = "embedding_provider_error"
	codeKeywordNotSupported   = "keyword_search_not_supported"
	codeInternalError         = "internal_error"
	codeValidationFailed      = "validation_failed"
	codeUnsupportedSearchMode = "unsupported_search_mode"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Asker runs a question through the pipeline.
type Asker interface {
	Ask(ctx context.Context, req pipeline.Ask) (*pipeline.Response, error)
}

// Ingester manages corpus passages.
type Ingester interface {
	Ingest(ctx context.Context, p dompas.Passage) (dompas.Passage, error)
	Get(ctx context.Context, id string) (dompas.Passage, error)
	Delete(ctx context.Context, id string) error
}

// Server hosts the HTTP handlers.
type Server struct {
	asker         Asker
	ingester      Ingester
	searcher      retrieve.Backend
	health        *health.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	asker Asker,
	ingester Ingester,
	searcher retrieve.Backend,
	healthSvc *health.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		asker:    asker,
		ingester: ingester,
		searcher: searcher,
		health:   healthSvc,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrPassageNotFound, http.StatusNotFound, codePassageNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrRetrievalUnavailable, http.StatusServiceUnavailable, codeRetrievalUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrKeywordSearchNotSupported, http.StatusNotImplemented, codeKeywordNotSupported),
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/ask", s.handleAsk)
	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/passages", s.handleCreatePassage)
	r.Get("/api/v1/passages/{id}", s.handleGetPassage)
	r.Delete("/api/v1/passages/{id}", s.handleDeletePassage)
	r.Get("/healthz", s.handleLiveness)
	r.Get("/readyz", s.handleReadiness)
	r.Get("/metrics", s.handleMetrics)
}

// handleAsk handles POST /api/v1/ask.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.asker.Ask(r.Context(), askFromRequest(&req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, askToResponse(resp))
}

// handleSearch handles POST /api/v1/search: one retrieval strategy, no
// classification or ranking.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	opts := retrieve.SearchOptions{
		MaxResults:          maxResults,
		SimilarityThreshold: req.SimilarityThreshold,
		Phase:               req.Phase,
	}

	var cands []candidate.Candidate
	var err error
	switch req.Mode {
	case "", "semantic":
		cands, err = s.searcher.SemanticSearch(r.Context(), req.Query, opts)
	case "hybrid":
		cands, err = s.searcher.HybridSearch(r.Context(), req.Query, opts)
	default:
		writeError(w, http.StatusBadRequest, codeUnsupportedSearchMode,
			fmt.Sprintf("unsupported search mode %q", req.Mode))
		return
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits := make([]searchHitDTO, len(cands))
	for i := range cands {
		hits[i] = candidateToHit(&cands[i])
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: hits, Total: len(hits)})
}

// handleCreatePassage handles POST /api/v1/passages.
func (s *Server) handleCreatePassage(w http.ResponseWriter, r *http.Request) {
	var req passageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := passageFromRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	stored, err := s.ingester.Ingest(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/passages/"+stored.ID())
	writeJSON(w, http.StatusCreated, passageToResponse(&stored))
}

// handleGetPassage handles GET /api/v1/passages/{id}.
func (s *Server) handleGetPassage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.ingester.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, passageToResponse(&p))
}

// handleDeletePassage handles DELETE /api/v1/passages/{id}.
func (s *Server) handleDeletePassage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.ingester.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleLiveness handles GET /healthz. The process is alive; no dependencies
// are checked.
func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// handleReadiness handles GET /readyz.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != health.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrPassageNotFound,
		domain.ErrAlreadyExists,
		domain.ErrRetrievalUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrKeywordSearchNotSupported,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
