package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llmbridge_provider_requests_total",
			Help: "Total provider generate calls by outcome kind.",
		},
		[]string{"provider", "outcome"},
	)
	providerRequestLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llmbridge_provider_request_latency_ms",
			Help:    "Provider generate call latency in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		},
		[]string{"provider"},
	)
	fileCleanupFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llmbridge_file_cleanup_failures_total",
			Help: "Total best-effort upload cleanup (delete) failures.",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(
		providerRequestsTotal,
		providerRequestLatencyMs,
		fileCleanupFailuresTotal,
	)
}

func observeProviderCall(provider string, err error, latency time.Duration) {
	if provider == "" {
		provider = "unknown"
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if e, ok := AsError(err); ok {
			outcome = string(e.Kind)
		}
	}
	providerRequestsTotal.WithLabelValues(provider, outcome).Inc()
	providerRequestLatencyMs.WithLabelValues(provider).Observe(float64(latency.Milliseconds()))
}

func observeFileCleanupFailure(provider string) {
	if provider == "" {
		provider = "unknown"
	}
	fileCleanupFailuresTotal.WithLabelValues(provider).Inc()
}
