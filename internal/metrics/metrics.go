package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API.
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OptimizeOutcomes counts optimization calls by outcome
	// (feasible, infeasible, invalid).
	OptimizeOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimize_requests_total", Help: "Optimization requests by outcome."},
		[]string{"outcome"},
	)
	// SolverDuration tracks solver wall-clock per call in seconds.
	SolverDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "solver_duration_seconds", Help: "Solver wall-clock per optimization call.", Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30, 60}},
	)
	// SolverIterations tracks local-search move evaluations per call.
	SolverIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "solver_iterations", Help: "Local-search move evaluations per call.", Buckets: prometheus.ExponentialBuckets(10, 4, 8)},
	)
	// SkippedDeliveries counts skipped deliveries by taxonomy reason.
	SkippedDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "skipped_deliveries_total", Help: "Skipped deliveries by reason."},
		[]string{"reason"},
	)
)

// RegisterDefault registers collectors to the dedicated registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OptimizeOutcomes)
		Registry.MustRegister(SolverDuration)
		Registry.MustRegister(SolverIterations)
		Registry.MustRegister(SkippedDeliveries)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
