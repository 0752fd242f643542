// Package metrics exposes Prometheus collectors for the scrape pipeline
// and the status server.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesTotal                 *prometheus.CounterVec
	recordsTotal               *prometheus.CounterVec
	fetchDurationSeconds       *prometheus.HistogramVec
	parseStrategyTotal         *prometheus.CounterVec
	mergeRecordsAddedTotal     prometheus.Counter
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		pagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patchvault_pages_total",
				Help: "Total number of patch pages processed, labeled by site and status.",
			},
			[]string{"site", "status"},
		)

		recordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patchvault_records_total",
				Help: "Total number of patch records persisted, labeled by store outcome.",
			},
			[]string{"outcome"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patchvault_fetch_duration_seconds",
				Help:    "Histogram of page fetch latencies, labeled by site and fetch mode.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"site", "mode"},
		)

		parseStrategyTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patchvault_parse_strategy_total",
				Help: "Total number of successful parses, labeled by layout strategy.",
			},
			[]string{"strategy"},
		)

		mergeRecordsAddedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "patchvault_merge_records_added_total",
				Help: "Total number of records folded into the archive document.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patchvault_http_requests_total",
				Help: "Total number of status server requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patchvault_http_request_duration_seconds",
				Help:    "Histogram of status server latencies, labeled by method and route.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage records the outcome of processing one page. Status is
// succeeded, failed, or skipped.
func ObservePage(rawURL string, status string) {
	pagesTotal.WithLabelValues(SanitizeSite(rawURL), status).Inc()
}

// ObserveFetch records how long one fetch took. Mode is static or rendered.
func ObserveFetch(rawURL string, mode string, duration time.Duration) {
	fetchDurationSeconds.WithLabelValues(SanitizeSite(rawURL), mode).Observe(duration.Seconds())
}

// ObserveRecord counts a persisted record by its store outcome.
func ObserveRecord(outcome string) {
	recordsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStrategy counts a successful parse by the strategy that produced it.
func ObserveStrategy(strategy string) {
	parseStrategyTotal.WithLabelValues(strategy).Inc()
}

// AddMergedRecords counts records newly added to the archive document.
func AddMergedRecords(n int) {
	if n > 0 {
		mergeRecordsAddedTotal.Add(float64(n))
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
