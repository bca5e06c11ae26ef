// Package metrics exposes Prometheus collectors for the verifier service.
package metrics

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchAttemptsTotal       *prometheus.CounterVec
	fetchDurationSeconds     *prometheus.HistogramVec
	cacheRequestsTotal       *prometheus.CounterVec
	robotsFetchFailuresTotal prometheus.Counter
	verificationsTotal       *prometheus.CounterVec
	modelFallbacksTotal      *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truthlens_fetch_attempts_total",
				Help: "Total page fetch attempts, labeled by site, tier and outcome.",
			},
			[]string{"site", "tier", "outcome"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "truthlens_fetch_duration_seconds",
				Help:    "Histogram of page fetch latencies, labeled by tier.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"tier"},
		)

		cacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truthlens_cache_requests_total",
				Help: "Cache lookups, labeled by cache name and result.",
			},
			[]string{"cache", "result"},
		)

		robotsFetchFailuresTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "truthlens_robots_fetch_failures_total",
				Help: "Total robots.txt fetches that failed and degraded to allow-all.",
			},
		)

		verificationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truthlens_verifications_total",
				Help: "Completed verifications, labeled by verdict and scorer source.",
			},
			[]string{"verdict", "source"},
		)

		modelFallbacksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truthlens_model_fallbacks_total",
				Help: "External-model calls that degraded to the heuristic engine, by reason.",
			},
			[]string{"reason"},
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

// ObserveFetchAttempt records one tiered fetch attempt.
func ObserveFetchAttempt(site, tier, outcome string, duration time.Duration) {
	if fetchAttemptsTotal == nil {
		return
	}
	fetchAttemptsTotal.WithLabelValues(SanitizeSite(site), tier, outcome).Inc()
	fetchDurationSeconds.WithLabelValues(tier).Observe(duration.Seconds())
}

// ObserveCacheRequest records a hit or miss for the named cache.
func ObserveCacheRequest(cache string, hit bool) {
	if cacheRequestsTotal == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// ObserveRobotsFetchFailure counts a robots.txt fetch that fell back to allow-all.
func ObserveRobotsFetchFailure() {
	if robotsFetchFailuresTotal == nil {
		return
	}
	robotsFetchFailuresTotal.Inc()
}

// ObserveVerification records a completed verification.
func ObserveVerification(verdict, source string) {
	if verificationsTotal == nil {
		return
	}
	verificationsTotal.WithLabelValues(verdict, source).Inc()
}

// ObserveModelFallback counts a delegation from the external model to the engine.
func ObserveModelFallback(reason string) {
	if modelFallbacksTotal == nil {
		return
	}
	modelFallbacksTotal.WithLabelValues(reason).Inc()
}
