// Package airtable pulls the upstream events table from the Airtable REST API.
package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/ports"
)

const (
	// DefaultBaseURL is the Airtable REST API root.
	DefaultBaseURL = "https://api.airtable.com/v0"
	// DefaultTable is the table read when none is configured.
	DefaultTable = "Events"
	// DefaultPageSize is the largest page Airtable serves.
	DefaultPageSize = 100
)

// ErrMissingCredentials is returned when the token, base or table is not set.
var ErrMissingCredentials = errors.New("airtable client requires PAT, base ID and table name")

// Client lists every record of one table.
type Client struct {
	baseURL  string
	baseID   string
	table    string
	token    string
	pageSize int
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.RecordSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithPageSize sets the number of records requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for table in base, authenticated with a personal access token.
func New(token, baseID, table string, opts ...Option) (*Client, error) {
	token, baseID, table = strings.TrimSpace(token), strings.TrimSpace(baseID), strings.TrimSpace(table)
	if token == "" || baseID == "" || table == "" {
		return nil, ErrMissingCredentials
	}

	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	c := &Client{
		baseURL:  DefaultBaseURL,
		baseID:   baseID,
		table:    table,
		token:    token,
		pageSize: DefaultPageSize,
		client:   &http.Client{Timeout: 30 * time.Second, Transport: tr},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type page struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type apiError struct {
	Error json.RawMessage `json:"error"`
}

// FetchAll follows the offset cursor until the last page and converts every record.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	offset := ""
	for pageNo := 1; ; pageNo++ {
		p, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("airtable page %d: %w", pageNo, err)
		}
		for _, rec := range p.Records {
			e, err := rec.Event()
			if err != nil {
				c.logger.Warn("skipping undecodable record", "id", rec.ID, "err", err)
				continue
			}
			events = append(events, e)
		}
		c.logger.Debug("airtable page fetched", "page", pageNo, "records", len(p.Records))

		if p.Offset == "" {
			return events, nil
		}
		offset = p.Offset
	}
}

func (c *Client) fetchPage(ctx context.Context, offset string) (page, error) {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	if offset != "" {
		q.Set("offset", offset)
	}
	u := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(c.table), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return page{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return page{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return page{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e apiError
		_ = json.Unmarshal(body, &e)
		return page{}, fmt.Errorf("airtable returned %d: %s", resp.StatusCode, strings.TrimSpace(string(e.Error)))
	}

	var p page
	if err := json.Unmarshal(body, &p); err != nil {
		return page{}, fmt.Errorf("failed to decode page: %w", err)
	}
	return p, nil
}
