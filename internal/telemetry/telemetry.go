// Package telemetry provides Prometheus metrics and tracing for the linking service.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "internal-linking"

// Namespace prefixes every metric this service exports.
const Namespace = "linking"

// Upstream call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
	OutcomeNetwork     = "network_error"
	OutcomeCircuitOpen = "circuit_open"
	OutcomeRateLimited = "rate_limited"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	UpstreamRequests       *prometheus.CounterVec
	UpstreamDuration       *prometheus.HistogramVec
	CircuitOpen            prometheus.Gauge
	ClassificationFailures *prometheus.CounterVec
	PriorityPagesReturned  prometheus.Histogram
	RankingDuration        prometheus.Histogram
}

// Provider wraps the tracer and metrics. Each Provider owns its registry.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider registers all metrics on a fresh registry.
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Provider{
		Tracer:   otel.Tracer(tracerName),
		Metrics:  initMetrics(promauto.With(reg)),
		registry: reg,
	}
}

func initMetrics(f promauto.Factory) *Metrics {
	return &Metrics{
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linking_upstream_requests_total",
			Help: "OnCrawl API calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),

		UpstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "linking_upstream_duration_seconds",
			Help:    "OnCrawl API call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"endpoint"}),

		CircuitOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "linking_upstream_circuit_open",
			Help: "1 while the OnCrawl circuit breaker is open",
		}),

		ClassificationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linking_classification_failures_total",
			Help: "Gap classification fetches degraded to empty",
		}, []string{"gap"}),

		PriorityPagesReturned: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "linking_priority_pages_returned",
			Help:    "Pages in each priority ranking response",
			Buckets: []float64{0, 1, 10, 50, 100, 250, 500, 1000, 2500, 5000},
		}),

		RankingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "linking_ranking_duration_seconds",
			Help:    "End-to-end priority ranking time",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
}

// Handler serves this provider's registry on /metrics.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registerer lets other components add collectors to this provider's registry.
func (p *Provider) Registerer() prometheus.Registerer {
	return p.registry
}

// Gatherer exposes the registry for tests.
func (p *Provider) Gatherer() prometheus.Gatherer {
	return p.registry
}

// RecordUpstream records one OnCrawl call.
func (p *Provider) RecordUpstream(endpoint, outcome string, duration time.Duration) {
	p.Metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	p.Metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// SetCircuitOpen mirrors the breaker state.
func (p *Provider) SetCircuitOpen(open bool) {
	if open {
		p.Metrics.CircuitOpen.Set(1)
		return
	}
	p.Metrics.CircuitOpen.Set(0)
}

// RecordClassificationFailure counts a classification that degraded to empty.
func (p *Provider) RecordClassificationFailure(gap string) {
	p.Metrics.ClassificationFailures.WithLabelValues(gap).Inc()
}

// RecordRanking records the size and latency of a ranking response.
func (p *Provider) RecordRanking(pages int, duration time.Duration) {
	p.Metrics.PriorityPagesReturned.Observe(float64(pages))
	p.Metrics.RankingDuration.Observe(duration.Seconds())
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
