package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/festbot/pkg/catalog"
	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/ports"
	"github.com/aretw0/festbot/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Error details returned to clients.
const (
	DetailEmptyQuery   = "Query text cannot be empty."
	DetailNotReady     = "Service not ready: Event store unavailable."
	DetailInternal     = "An internal server error occurred."
	DetailBadBody      = "Invalid request body."
	DetailUnknownFlow  = "Unknown flow."
	DetailNotFound     = "Event not found."
	DetailSyncDisabled = "Sync is not configured."
	DetailSyncBusy     = "A sync is already in progress."
)

const maxRequestBytes = 64 << 10

// QueryService answers flow queries. Implemented by *catalog.Service.
type QueryService interface {
	Query(ctx context.Context, flow, text string) (catalog.Result, error)
	Ready(ctx context.Context) error
}

// Syncer refreshes the catalog. Implemented by *catalog.Syncer.
type Syncer interface {
	Sync(ctx context.Context) (int, error)
}

// Metrics instruments the router. Implemented by *metrics.Metrics.
type Metrics interface {
	Handler() http.Handler
	Middleware(next http.Handler) http.Handler
}

// Server holds the dependencies of the HTTP query service.
type Server struct {
	Service   QueryService
	Store     ports.EventStore
	Syncer    Syncer
	Metrics   Metrics
	Sanitizer runner.Sanitizer
	Version   string
	Logger    *slog.Logger
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithSyncer enables POST /api/sync.
func WithSyncer(s Syncer) ServerOption {
	return func(srv *Server) {
		srv.Syncer = s
	}
}

// WithMetrics instruments every route and mounts /metrics.
func WithMetrics(m Metrics) ServerOption {
	return func(srv *Server) {
		srv.Metrics = m
	}
}

// WithMaxInputBytes sets the size limit of the query text in bytes.
func WithMaxInputBytes(n int) ServerOption {
	return func(srv *Server) {
		srv.Sanitizer = runner.NewSanitizer(n)
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) ServerOption {
	return func(srv *Server) {
		srv.Version = strings.TrimSpace(v)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(srv *Server) {
		if logger != nil {
			srv.Logger = logger
		}
	}
}

// NewHandler creates the HTTP handler of the query service.
func NewHandler(service QueryService, store ports.EventStore, opts ...ServerOption) http.Handler {
	s := &Server{
		Service: service,
		Store:   store,
		Version: "dev",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec())
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/api", func(r chi.Router) {
		r.Post("/query", s.Query)
		r.Post("/sync", s.Sync)
		r.Get("/events", s.ListEvents)
		r.Get("/events/{id}", s.GetEvent)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Query handles POST /api/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, DetailBadBody)
		return
	}

	req, err := decodeQueryRequest(body)
	if err != nil {
		s.Logger.Warn("Query: Invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s %v", DetailBadBody, err))
		return
	}

	if err := s.Service.Ready(r.Context()); err != nil {
		s.Logger.Error("Query: store not ready", "err", err)
		writeError(w, http.StatusServiceUnavailable, DetailNotReady)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, DetailEmptyQuery)
		return
	}
	text, err := s.Sanitizer.Clean(req.Query)
	if err != nil {
		s.Logger.Warn("Query: Input rejected", "err", err, "size", len(req.Query))
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid input: %v", err))
		return
	}

	res, err := s.Service.Query(r.Context(), req.Flow, text)
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, DetailEmptyQuery)
		return
	case errors.Is(err, catalog.ErrUnknownFlow):
		writeError(w, http.StatusBadRequest, DetailUnknownFlow)
		return
	case err != nil:
		s.Logger.Error("Query failed", "flow", req.Flow, "err", err)
		writeError(w, http.StatusInternalServerError, DetailInternal)
		return
	}

	s.Logger.Info("Query served", "flow", req.Flow, "type", res.Type, "results", len(res.Data))
	writeJSON(w, http.StatusOK, QueryResponse{Data: res.Data, Type: string(res.Type)})
}

// decodeQueryRequest validates the body against the published schema before decoding it.
func decodeQueryRequest(body []byte) (QueryRequest, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&raw); err != nil {
		return QueryRequest{}, err
	}

	schema, err := requestSchema("/api/query")
	if err != nil {
		return QueryRequest{}, err
	}
	if err := schema.VisitJSON(raw); err != nil {
		return QueryRequest{}, err
	}

	var req QueryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return QueryRequest{}, err
	}
	return req, nil
}

// Sync handles POST /api/sync.
func (s *Server) Sync(w http.ResponseWriter, r *http.Request) {
	if s.Syncer == nil {
		writeError(w, http.StatusNotImplemented, DetailSyncDisabled)
		return
	}

	n, err := s.Syncer.Sync(r.Context())
	switch {
	case errors.Is(err, catalog.ErrSyncInProgress):
		writeError(w, http.StatusConflict, DetailSyncBusy)
		return
	case err != nil:
		s.Logger.Error("Sync failed", "err", err)
		writeError(w, http.StatusInternalServerError, DetailInternal)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Synced %d records.", n)})
}

// ListEvents handles GET /api/events.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %v", err))
		return
	}
	if limit != nil && *limit < 1 {
		writeError(w, http.StatusBadRequest, "Invalid format for parameter limit: must be positive")
		return
	}

	events, err := s.Store.List(r.Context())
	if err != nil {
		s.Logger.Error("ListEvents failed", "err", err)
		writeError(w, http.StatusInternalServerError, DetailInternal)
		return
	}
	catalog.SortEvents(events)
	if limit != nil && len(events) > *limit {
		events = events[:*limit]
	}

	writeJSON(w, http.StatusOK, QueryResponse{Data: events, Type: string(catalog.KindList)})
}

// GetEvent handles GET /api/events/{id}.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %v", err))
		return
	}

	event, err := s.Store.Get(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, DetailNotFound)
		return
	case err != nil:
		s.Logger.Error("GetEvent failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, DetailInternal)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "festbot-http",
		"version":     s.Version,
		"api_version": apiVersion,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
