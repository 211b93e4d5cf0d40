package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/ports"
)

// DefaultEndpoint is the query endpoint of a locally running service.
const DefaultEndpoint = "http://localhost:8080/api/query"

// DefaultTimeout bounds a single query round trip.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Flow  string `json:"flow"`
	Query string `json:"query"`
}

// QueryResponse is the success body of POST /api/query.
type QueryResponse struct {
	Data []domain.Event `json:"data"`
	Type string         `json:"type,omitempty"`
}

// ErrorResponse is the failure body used by every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Client is the query gateway that talks to the query service over HTTP.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.QueryGateway = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout replaces the default round-trip timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.client = newHTTPClient(d)
		}
	}
}

// WithClientLogger sets the structured logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a gateway posting to endpoint (DefaultEndpoint when empty).
func NewClient(endpoint string, opts ...ClientOption) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		client:   newHTTPClient(DefaultTimeout),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// Endpoint returns the URL queries are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Query posts {flow, query} and returns the events in the order received.
// A success response that cannot be decoded counts as an empty result.
func (c *Client) Query(ctx context.Context, flow, text string) ([]domain.Event, error) {
	payload, err := json.Marshal(QueryRequest{Flow: flow, Query: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.TransportError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e ErrorResponse
		_ = json.Unmarshal(body, &e)
		c.logger.Warn("query rejected", "flow", flow, "status", resp.StatusCode, "detail", e.Detail)
		return nil, &domain.TransportError{Status: resp.StatusCode, Detail: e.Detail}
	}

	var out QueryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		c.logger.Warn("malformed query response", "flow", flow, "err", err)
		return nil, nil
	}
	return out.Data, nil
}
