package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(translationJobsTotal, translationEnqueuedTotal, queueBatchFailedTotal, providerLatencyMs)
}

var translationJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "translation_jobs_processed_total",
		Help: "Translation jobs processed, labeled by outcome (completed/failed/skipped).",
	},
	[]string{"outcome"},
)

var translationEnqueuedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "translation_requests_total",
		Help: "Translation requests, labeled by result (enqueued/reused).",
	},
	[]string{"result"},
)

var queueBatchFailedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "translation_queue_batch_failures_total",
		Help: "Queue messages reported back for redelivery.",
	},
)

var providerLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "translation_provider_latency_ms",
		Help:    "Translation provider call latency in milliseconds.",
		Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
	},
	[]string{"provider", "success"},
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncTranslationJob(outcome string) {
	translationJobsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncTranslationRequest(result string) {
	translationEnqueuedTotal.WithLabelValues(norm(result)).Inc()
}

func IncBatchFailure() { queueBatchFailedTotal.Inc() }

func ObserveProviderLatency(provider string, latencyMs int, success bool) {
	providerLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
