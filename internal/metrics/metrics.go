package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	registry *prometheus.Registry

	modelRequests *prometheus.CounterVec
	modelLatency  *prometheus.HistogramVec
)

func init() {
	reset()
}

func reset() {
	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	modelRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modelgate_model_requests_total",
		Help: "Total completion requests sent to the model provider.",
	}, []string{"provider", "task", "status", "error_category"})

	modelLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "modelgate_model_request_duration_seconds",
		Help:    "Completion request duration in seconds.",
		Buckets: defaultDurationBuckets,
	}, []string{"provider", "task", "status"})

	registry.MustRegister(modelRequests, modelLatency)
}

func RecordModelCall(provider string, task string, status string, errorCategory string, duration time.Duration) {
	modelRequests.WithLabelValues(provider, task, status, errorCategory).Inc()
	modelLatency.WithLabelValues(provider, task, status).Observe(duration.Seconds())
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func ResetForTests() {
	reset()
}
