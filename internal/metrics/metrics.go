// Package metrics exposes Prometheus collectors for the collector service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	navigationsTotal           *prometheus.CounterVec
	navigationDurationSeconds  *prometheus.HistogramVec
	pauseSecondsTotal          *prometheus.CounterVec
	entitiesReconciledTotal    *prometheus.CounterVec
	runsTotal                  *prometheus.CounterVec
	runDurationSeconds         prometheus.Histogram
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		navigationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csradar_navigations_total",
				Help: "Total page navigations, labeled by outcome (ok, error, challenge).",
			},
			[]string{"outcome"},
		)

		navigationDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "csradar_navigation_duration_seconds",
				Help:    "Histogram of page load latencies, labeled by outcome.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 45},
			},
			[]string{"outcome"},
		)

		pauseSecondsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csradar_pause_seconds_total",
				Help: "Total seconds spent in pacing pauses, labeled by stage.",
			},
			[]string{"stage"},
		)

		entitiesReconciledTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csradar_entities_reconciled_total",
				Help: "Total reconciled entities, labeled by kind and operation.",
			},
			[]string{"kind", "op"},
		)

		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csradar_runs_total",
				Help: "Total collection runs, labeled by result.",
			},
			[]string{"result"},
		)

		runDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "csradar_run_duration_seconds",
				Help:    "Histogram of full collection run durations.",
				Buckets: []float64{60, 300, 900, 1800, 3600, 7200},
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveNavigation records one page navigation attempt.
func ObserveNavigation(outcome string, duration time.Duration) {
	if navigationsTotal == nil {
		return
	}
	navigationsTotal.WithLabelValues(outcome).Inc()
	navigationDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObservePause accumulates time spent sleeping between requests.
func ObservePause(stage string, duration time.Duration) {
	if pauseSecondsTotal == nil {
		return
	}
	pauseSecondsTotal.WithLabelValues(stage).Add(duration.Seconds())
}

// ObserveEntity counts a reconciled entity by kind (team, player, stats,
// achievement, map_stats) and operation (created, updated, skipped, failed).
func ObserveEntity(kind, op string) {
	if entitiesReconciledTotal == nil {
		return
	}
	entitiesReconciledTotal.WithLabelValues(kind, op).Inc()
}

// ObserveRun records a finished collection run.
func ObserveRun(result string, duration time.Duration) {
	if runsTotal == nil {
		return
	}
	runsTotal.WithLabelValues(result).Inc()
	runDurationSeconds.Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
