// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package metrics registers the Prometheus collectors exported on /metrics
// by both binaries.
//
// Instrumented areas:
//   - inbound HTTP requests (latency, status, in-flight)
//   - upstream API calls per resource kind
//   - character enrichment outcomes (ok or degraded)
//   - the upstream circuit breaker
//   - the frontend's HTTP freshness cache
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Inbound API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}, // enrichment fans out, so the tail is long
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Upstream API metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests sent to the upstream API",
		},
		[]string{"resource", "outcome"}, // outcome: "success", "error", "not_found"
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	// Enrichment metrics
	EnrichmentResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_results_total",
			Help: "Characters enriched, by result",
		},
		[]string{"result"}, // result: "ok", "degraded"
	)

	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Time to enrich one character including all relation fetches",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Frontend HTTP cache
	HTTPCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_http_cache_requests_total",
			Help: "Gateway lookups made by the web frontend, by cache result",
		},
		[]string{"result"}, // result: "hit", "miss", "bypass"
	)
)

// RecordAPIRequest records one completed inbound request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamRequest records one upstream call for a resource kind
// (people, planets, films, species, vehicles, starships, resource).
func RecordUpstreamRequest(resource, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(resource, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordEnrichment records the outcome of enriching a single character.
func RecordEnrichment(degraded bool, duration time.Duration) {
	result := "ok"
	if degraded {
		result = "degraded"
	}
	EnrichmentResults.WithLabelValues(result).Inc()
	EnrichmentDuration.Observe(duration.Seconds())
}

// RecordHTTPCache records a frontend cache lookup.
func RecordHTTPCache(result string) {
	HTTPCacheRequests.WithLabelValues(result).Inc()
}
