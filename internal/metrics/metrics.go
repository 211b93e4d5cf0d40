// Package metrics holds the Prometheus collectors of festbot.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	transitions   *prometheus.CounterVec
	synced        prometheus.Counter
	requests      *prometheus.CounterVec
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "festbot_queries_total",
				Help: "Query gateway round trips by flow and outcome",
			},
			[]string{"flow", "outcome"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "festbot_query_duration_seconds",
				Help:    "Duration of query gateway round trips",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"flow"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "festbot_transitions_total",
				Help: "Conversation transitions by gesture",
			},
			[]string{"gesture", "to"},
		),
		synced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "festbot_synced_records_total",
			Help: "Events written by catalog syncs",
		}),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "festbot_http_requests_total",
				Help: "HTTP requests served by route and status",
			},
			[]string{"method", "route", "status"},
		),
	}
	m.registry.MustRegister(
		m.queries, m.queryDuration, m.transitions, m.synced, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks records controller transitions and queries.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(string(e.Gesture), e.To.String()).Inc()
		},
		OnQuery: func(ctx context.Context, e *domain.QueryEvent) {
			m.ObserveQuery(e.Flow, Outcome(e), e.Duration.Seconds())
		},
	}
}

// Outcome classifies a query event as error, stale, empty, single or many.
func Outcome(e *domain.QueryEvent) string {
	switch {
	case e.Err != nil:
		return "error"
	case e.Stale:
		return "stale"
	case e.Results == 0:
		return "empty"
	case e.Results == 1:
		return "single"
	default:
		return "many"
	}
}

// ObserveQuery records one query round trip.
func (m *Metrics) ObserveQuery(flow, outcome string, seconds float64) {
	m.queries.WithLabelValues(flow, outcome).Inc()
	m.queryDuration.WithLabelValues(flow).Observe(seconds)
}

// ObserveSync records the number of events written by a sync.
func (m *Metrics) ObserveSync(n int) {
	m.synced.Add(float64(n))
}

// Middleware counts requests by chi route pattern and status code.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
