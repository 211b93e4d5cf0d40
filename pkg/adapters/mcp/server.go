// Package mcp exposes the events catalog as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/festbot"
	"github.com/aretw0/festbot/pkg/catalog"
	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/format"
	"github.com/aretw0/festbot/pkg/ports"
	"github.com/aretw0/festbot/pkg/runner"
	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// EventsURI is the resource listing the whole catalog.
const EventsURI = "festbot://events"

// TextNoMatch is the text of an empty search result.
const TextNoMatch = "No matching events."

// QueryArgs are the arguments of the search tools.
type QueryArgs struct {
	Query string `json:"query"`
}

// SearchResponse is the structured result of a search tool.
type SearchResponse struct {
	Type   string         `json:"type" jsonschema_description:"list or detail"`
	Events []domain.Event `json:"events" jsonschema_description:"Matching events in presentation order"`
	Text   string         `json:"text" jsonschema_description:"Markdown rendering shown to chat users"`
}

// Searcher answers flow queries. Implemented by *catalog.Service.
type Searcher interface {
	Query(ctx context.Context, flow, text string) (catalog.Result, error)
}

// Server exposes the catalog over MCP.
type Server struct {
	search    Searcher
	store     ports.EventStore
	sanitizer runner.Sanitizer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxInputBytes sets the size limit of a tool query in bytes.
func WithMaxInputBytes(n int) Option {
	return func(s *Server) {
		s.sanitizer = runner.NewSanitizer(n)
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(search Searcher, store ports.EventStore, opts ...Option) *Server {
	s := &Server{
		search:    search,
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("festbot-mcp", strings.TrimSpace(festbot.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
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

func (s *Server) registerTools() {
	searchTool := mcp.NewTool("search_events",
		mcp.WithDescription("Search festival events by free text, e.g. \"jazz on June 2\"."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search, may include a date")),
		mcp.WithOutputSchema[SearchResponse](),
	)
	s.mcpServer.AddTool(searchTool, mcp.NewStructuredToolHandler(s.handleSearch))

	detailsTool := mcp.NewTool("get_event_details",
		mcp.WithDescription("Get the full details of one event by name, optionally followed by \"on <date>\"."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Event name, optionally with its date")),
		mcp.WithOutputSchema[SearchResponse](),
	)
	s.mcpServer.AddTool(detailsTool, mcp.NewStructuredToolHandler(s.handleDetails))
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest, args QueryArgs) (SearchResponse, error) {
	return s.run(ctx, domain.FlowEvents, args.Query)
}

func (s *Server) handleDetails(ctx context.Context, request mcp.CallToolRequest, args QueryArgs) (SearchResponse, error) {
	return s.run(ctx, domain.FlowEventDetails, args.Query)
}

func (s *Server) run(ctx context.Context, flow, query string) (SearchResponse, error) {
	clean, err := s.sanitizer.Clean(query)
	if err != nil {
		s.logger.Warn("MCP search: Input rejected", "err", err, "size", len(query))
		return SearchResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	res, err := s.search.Query(ctx, flow, clean)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("%s failed: %w", flow, err)
	}

	resp := SearchResponse{Type: string(res.Type), Events: res.Data}
	switch {
	case len(res.Data) == 0:
		resp.Text = TextNoMatch
	case res.Type == catalog.KindDetail:
		resp.Text = format.Detail(res.Data[0])
	default:
		resp.Text = format.Summary(res.Data)
	}
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(EventsURI, "Festival Events Catalog",
		mcp.WithMIMEType("application/json"),
	), s.readEvents)
}

func (s *Server) readEvents(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	catalog.SortEvents(events)
	jsonBytes, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      EventsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
