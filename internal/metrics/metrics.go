package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// MatrixBuildDuration tracks cost-matrix build wall time in seconds
	MatrixBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "matrix_build_duration_seconds", Help: "Cost matrix build duration in seconds.", Buckets: prometheus.DefBuckets},
	)
	// ProviderLookups counts pairwise travel-cost lookups by outcome (ok, fallback)
	ProviderLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "provider_lookups_total", Help: "Pairwise travel-cost lookups by outcome."},
		[]string{"outcome"},
	)
	// SolverDuration tracks tour-solver wall time in seconds by method
	SolverDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "solver_duration_seconds", Help: "Tour solve duration in seconds.", Buckets: []float64{.005, .01, .05, .1, .5, 1, 2, 5, 10}},
		[]string{"method"},
	)
	// PlansCreated counts successfully created plans
	PlansCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "plans_created_total", Help: "Total plans created."},
	)
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(MatrixBuildDuration)
		Registry.MustRegister(ProviderLookups)
		Registry.MustRegister(SolverDuration)
		Registry.MustRegister(PlansCreated)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
