// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP surface

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastemap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tastemap_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tastemap_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// External calls

	ExternalCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastemap_external_calls_total",
			Help: "Total number of geocoding and place-search calls by outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tastemap_external_call_duration_seconds",
			Help:    "Duration of geocoding and place-search calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tastemap_recommendations_total",
			Help: "Total number of recommend actions by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordExternalCall records one outbound call. outcome is "ok" or an error
// class such as "http_error" or "network_error".
func RecordExternalCall(endpoint, outcome string, d time.Duration) {
	ExternalCallsTotal.WithLabelValues(endpoint, outcome).Inc()
	ExternalCallDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordRecommendation records the outcome of one recommend action.
func RecordRecommendation(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	RecommendationsTotal.WithLabelValues(outcome).Inc()
}
