package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, fn http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(fn)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SendsFlowAndTextVerbatim(t *testing.T) {
	var got QueryRequest
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"data":[{"id":1,"name":"B"},{"id":"rec2","name":"A"}],"type":"list"}`))
	})

	events, err := NewClient(srv.URL).Query(context.Background(), domain.FlowEvents, "  SSH 3 on July 19 ")
	require.NoError(t, err)

	assert.Equal(t, QueryRequest{Flow: "events", Query: "  SSH 3 on July 19 "}, got)
	require.Len(t, events, 2)
	assert.Equal(t, "1", events[0].ID, "numeric ids are accepted")
	assert.Equal(t, "B", events[0].Name, "order is preserved")
	assert.Equal(t, "rec2", events[1].ID)
}

func TestClient_EmptyResults(t *testing.T) {
	bodies := map[string]string{
		"empty list":   `{"data":[],"type":"list"}`,
		"missing data": `{"type":"list"}`,
		"null data":    `{"data":null}`,
		"malformed":    `{"data":`,
		"wrong shape":  `{"data":"nope"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			})
			events, err := NewClient(srv.URL).Query(context.Background(), domain.FlowEvents, "x")
			require.NoError(t, err)
			assert.Empty(t, events)
		})
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"detail":"Service not ready: Schema not loaded."}`)
	})

	_, err := NewClient(srv.URL).Query(context.Background(), domain.FlowEvents, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)

	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusServiceUnavailable, te.Status)
	assert.Equal(t, "Service not ready: Schema not loaded.", te.Detail)
}

func TestClient_ErrorStatusWithoutDetail(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := NewClient(srv.URL).Query(context.Background(), domain.FlowEvents, "x")
	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.Status)
	assert.Empty(t, te.Detail)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Query(context.Background(), domain.FlowEvents, "x")
	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.Status)
	assert.Error(t, te.Err)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	c := NewClient(srv.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	_, err := c.Query(context.Background(), domain.FlowEvents, "x")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_DefaultEndpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, NewClient("").Endpoint())
}

func TestClient_AgainstServer(t *testing.T) {
	srv := httptest.NewServer(newTestHandler())
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL + "/api/query")
	events, err := c.Query(context.Background(), domain.FlowEventDetails, "Jazz Night on July 19, 2025")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "3", events[0].ID)

	_, err = c.Query(context.Background(), domain.FlowEvents, "   ")
	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadRequest, te.Status)
	assert.Equal(t, DetailEmptyQuery, te.Detail)
}
