package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todoai",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "todoai",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Provider attempts, one per vendor call including retries
	ProviderAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todoai",
			Subsystem: "llm",
			Name:      "provider_attempts_total",
			Help:      "Vendor calls by outcome kind",
		},
		[]string{"vendor", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "todoai",
			Subsystem: "llm",
			Name:      "generation_duration_seconds",
			Help:      "Duration of a full generation call including retries",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"vendor", "operation"},
	)

	TaskListsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todoai",
			Subsystem: "generation",
			Name:      "task_lists_generated_total",
			Help:      "Generated task lists by vendor and whether they were persisted",
		},
		[]string{"vendor", "persisted"},
	)

	GenerationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todoai",
			Subsystem: "generation",
			Name:      "failures_total",
			Help:      "Task generation failures by vendor and kind",
		},
		[]string{"vendor", "kind"},
	)
)
