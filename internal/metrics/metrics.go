// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

// Package metrics holds Reelpick's Prometheus collectors. They are
// registered on the default registry and exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelpick_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}, // generate can take many upstream round trips
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelpick_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the inbound rate limiter",
		},
		[]string{"group"},
	)

	// Upstream services (suggest, omdb)
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_upstream_requests_total",
			Help: "Total number of calls to upstream services by outcome",
		},
		[]string{"service", "operation", "outcome"}, // outcome: ok, not_found, format, server, network, client
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelpick_upstream_request_duration_seconds",
			Help:    "Upstream call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"service", "operation"},
	)

	UpstreamCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_upstream_cache_hits_total",
			Help: "Upstream lookups served from the in-memory cache",
		},
		[]string{"service"},
	)

	UpstreamCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_upstream_cache_misses_total",
			Help: "Upstream lookups that missed the in-memory cache",
		},
		[]string{"service"},
	)

	// Circuit breakers
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelpick_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelpick_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Recommendations
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_recommendations_total",
			Help: "Finished generate runs by outcome",
		},
		[]string{"outcome"}, // verified, unverified, failed
	)

	RecommendationAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelpick_recommendation_attempts",
			Help:    "Suggestion attempts needed per generate run",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 11},
		},
	)

	DuplicateRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_duplicate_retries_total",
			Help: "Suggestions discarded because they repeated session history",
		},
		[]string{"stage"}, // suggestion, verified
	)

	RetriesExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelpick_retries_exhausted_total",
			Help: "Generate runs that published a duplicate after using the whole retry budget",
		},
	)

	// Sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelpick_active_sessions",
			Help: "Current number of live recommendation sessions",
		},
	)

	SessionsEvicted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_sessions_evicted_total",
			Help: "Sessions removed by the registry",
		},
		[]string{"reason"}, // idle, capacity, deleted
	)

	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelpick_websocket_connections",
			Help: "Current number of websocket subscribers",
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordUpstreamCall records one upstream call and its outcome label.
func RecordUpstreamCall(service, operation, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(service, operation, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordRecommendation records the terminal outcome of a generate run.
func RecordRecommendation(outcome string, attempts int) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	if attempts > 0 {
		RecommendationAttempts.Observe(float64(attempts))
	}
}
