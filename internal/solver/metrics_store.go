package solver

import "sync"

var (
	mu      sync.Mutex
	records = map[string]Metrics{}
)

// RecordMetrics stores the solver metrics for a plan.
func RecordMetrics(planID string, m Metrics) {
	mu.Lock()
	records[planID] = m
	mu.Unlock()
}

// GetMetrics returns the recorded metrics for a plan, if any.
func GetMetrics(planID string) (Metrics, bool) {
	mu.Lock()
	defer mu.Unlock()
	m, ok := records[planID]
	return m, ok
}
