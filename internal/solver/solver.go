package solver

import (
	"errors"
	"fmt"
	"math"
	"time"

	"routeplan/internal/matrix"
	"routeplan/internal/metrics"
)

// CostField selects the optimization objective.
type CostField string

const (
	FieldDistance CostField = "distance"
	FieldDuration CostField = "duration"
)

// Tour is an ordered visiting sequence: a permutation of 0..N-1. The first
// element is the fixed-start index when one exists, index 0 otherwise.
type Tour []int

// ErrInfeasible indicates a malformed matrix (NaN or negative cells). It
// signals an upstream invariant violation, not an expected runtime path.
var ErrInfeasible = errors.New("cost matrix is infeasible")

// Metrics describes one solver run.
type Metrics struct {
	Method       string    `json:"method"` // exact or heuristic
	Field        CostField `json:"field"`
	N            int       `json:"n"`
	Passes       int       `json:"passes"`
	Improvements int       `json:"improvements"`
	InitialCost  float64   `json:"initialCost"`
	FinalCost    float64   `json:"finalCost"`
	ElapsedMs    int64     `json:"elapsedMs"`
	TimedOut     bool      `json:"timedOut"`
}

// Held-Karp is O(n²·2ⁿ); beyond this the heuristic takes over.
const exactMaxN = 13

const eps = 1e-9

// Solve computes an open Hamiltonian path over all indices of m that
// approximately minimizes the chosen cost field. The path starts at
// fixedStart when >= 0, otherwise at index 0. The returned tour never costs
// more than the naive sequential order, and repeated calls with identical
// arguments return identical tours.
func Solve(m *matrix.Matrix, fixedStart int, field CostField, budget time.Duration) (Tour, Metrics, error) {
	started := time.Now()
	n := m.N
	if n == 0 {
		return nil, Metrics{}, fmt.Errorf("solve: empty matrix: %w", ErrInfeasible)
	}
	start := fixedStart
	if start < 0 {
		start = 0
	}
	if start >= n {
		return nil, Metrics{}, fmt.Errorf("solve: fixed start %d out of range [0,%d)", start, n)
	}

	// The duration objective needs every reachable cell; fall back to the
	// distance objective when any duration is missing (geodesic cells).
	effective := field
	if effective != FieldDuration {
		effective = FieldDistance
	}
	if effective == FieldDuration && !m.HasAllDurations() {
		effective = FieldDistance
	}

	// Flatten costs once; hot loops index w[i*n+j].
	w := make([]float64, n*n)
	for i := 0; i < n; i++ {
		if len(m.Cells[i]) != n {
			return nil, Metrics{}, fmt.Errorf("solve: row %d has %d cells, want %d: %w", i, len(m.Cells[i]), n, ErrInfeasible)
		}
		for j := 0; j < n; j++ {
			c := m.Cells[i][j].DistanceKm
			if effective == FieldDuration && i != j {
				c = *m.Cells[i][j].DurationMin
			}
			if math.IsNaN(c) || c < 0 {
				return nil, Metrics{}, fmt.Errorf("solve: cell (%d,%d)=%v: %w", i, j, c, ErrInfeasible)
			}
			w[i*n+j] = c
		}
	}

	mtr := Metrics{Field: effective, N: n}
	naive := naiveTour(n, start)
	naiveCost := tourCost(w, n, naive)
	mtr.InitialCost = naiveCost

	var tour Tour
	if n == 1 {
		mtr.Method = "exact"
		tour = Tour{0}
	} else if n <= exactMaxN {
		mtr.Method = "exact"
		tour = heldKarp(w, n, start)
	} else {
		mtr.Method = "heuristic"
		var deadline time.Time
		if budget > 0 {
			deadline = started.Add(budget)
		}
		seed := nearestNeighbor(w, n, start)
		if tourCost(w, n, naive) < tourCost(w, n, seed) {
			seed = append(Tour(nil), naive...)
		}
		tour = localSearch(w, n, seed, deadline, &mtr)
	}

	// Never worse than doing nothing.
	if tourCost(w, n, tour) > naiveCost+eps {
		tour = naive
	}
	mtr.FinalCost = tourCost(w, n, tour)
	mtr.ElapsedMs = time.Since(started).Milliseconds()
	metrics.SolverDuration.WithLabelValues(mtr.Method).Observe(time.Since(started).Seconds())
	return tour, mtr, nil
}

// naiveTour is the do-nothing order: start first, then ascending indices.
func naiveTour(n, start int) Tour {
	t := make(Tour, 0, n)
	t = append(t, start)
	for i := 0; i < n; i++ {
		if i != start {
			t = append(t, i)
		}
	}
	return t
}

func tourCost(w []float64, n int, t Tour) float64 {
	total := 0.0
	for p := 0; p+1 < len(t); p++ {
		total += w[t[p]*n+t[p+1]]
	}
	return total
}
