package solver

import (
	"math"
	"testing"
	"time"

	"routeplan/internal/matrix"
)

func distMatrix(d [][]float64) *matrix.Matrix {
	n := len(d)
	m := matrix.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Cells[i][j] = matrix.Cell{DistanceKm: d[i][j]}
		}
	}
	return m
}

func pointsMatrix(pts [][2]float64) *matrix.Matrix {
	n := len(pts)
	m := matrix.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dx := pts[i][0] - pts[j][0]
			dy := pts[i][1] - pts[j][1]
			m.Cells[i][j] = matrix.Cell{DistanceKm: math.Hypot(dx, dy)}
		}
	}
	return m
}

func assertPermutation(t *testing.T, tour Tour, n int) {
	t.Helper()
	if len(tour) != n {
		t.Fatalf("tour length: got %d, want %d", len(tour), n)
	}
	seen := make([]bool, n)
	for _, idx := range tour {
		if idx < 0 || idx >= n {
			t.Fatalf("tour index out of range: %d", idx)
		}
		if seen[idx] {
			t.Fatalf("duplicate index in tour: %d", idx)
		}
		seen[idx] = true
	}
}

func cost(m *matrix.Matrix, tour Tour) float64 {
	total := 0.0
	for p := 0; p+1 < len(tour); p++ {
		total += m.Cells[tour[p]][tour[p+1]].DistanceKm
	}
	return total
}

func TestSolveReturnsPermutation(t *testing.T) {
	m := distMatrix([][]float64{
		{0, 4, 9, 2, 7, 1},
		{3, 0, 8, 5, 6, 2},
		{9, 1, 0, 4, 3, 8},
		{2, 7, 5, 0, 1, 6},
		{6, 3, 2, 8, 0, 4},
		{1, 5, 7, 3, 9, 0},
	})
	tour, mtr, err := Solve(m, -1, FieldDistance, time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	assertPermutation(t, tour, 6)
	if mtr.Method != "exact" {
		t.Fatalf("method: got %q, want exact for n=6", mtr.Method)
	}
}

func TestFixedStartPinned(t *testing.T) {
	pts := [][2]float64{{0, 0}, {5, 1}, {2, 9}, {7, 4}, {1, 6}}
	m := pointsMatrix(pts)
	tour, _, err := Solve(m, 2, FieldDistance, time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	assertPermutation(t, tour, 5)
	if tour[0] != 2 {
		t.Fatalf("fixed start: got tour[0]=%d, want 2", tour[0])
	}
}

func TestNeverWorseThanNaive(t *testing.T) {
	// Identity order is already optimal here; the solver must match it.
	m := distMatrix([][]float64{
		{0, 1, 10, 10},
		{10, 0, 1, 10},
		{10, 10, 0, 1},
		{10, 10, 10, 0},
	})
	tour, mtr, err := Solve(m, 0, FieldDistance, time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	naive := Tour{0, 1, 2, 3}
	if got, want := cost(m, tour), cost(m, naive); got > want+1e-9 {
		t.Fatalf("tour cost %v worse than naive %v", got, want)
	}
	if mtr.FinalCost > mtr.InitialCost+1e-9 {
		t.Fatalf("final cost %v worse than initial %v", mtr.FinalCost, mtr.InitialCost)
	}
}

func TestDeterminism(t *testing.T) {
	pts := make([][2]float64, 20)
	for i := range pts {
		pts[i] = [2]float64{float64(i % 5), float64((i * 7) % 13)}
	}
	m := pointsMatrix(pts)
	t1, _, err := Solve(m, 0, FieldDistance, time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	t2, _, err := Solve(m, 0, FieldDistance, time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(t1) != len(t2) {
		t.Fatalf("lengths differ: %d vs %d", len(t1), len(t2))
	}
	for i := range t1 {
		if t1[i] != t2[i] {
			t.Fatalf("tours differ at %d: %v vs %v", i, t1, t2)
		}
	}
}

func TestZeroMatrixZeroCost(t *testing.T) {
	m := matrix.New(5)
	tour, mtr, err := Solve(m, -1, FieldDistance, time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	assertPermutation(t, tour, 5)
	if mtr.FinalCost != 0 {
		t.Fatalf("zero matrix: got cost %v, want 0", mtr.FinalCost)
	}
}

func TestUnitSquareOptimal(t *testing.T) {
	// A(0,0) B(0,1) C(1,1) D(1,0): the optimal open path walks three sides.
	pts := [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	m := pointsMatrix(pts)
	tour, _, err := Solve(m, -1, FieldDistance, time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	assertPermutation(t, tour, 4)
	if got := cost(m, tour); math.Abs(got-3) > 1e-9 {
		t.Fatalf("square tour cost: got %v, want 3", got)
	}
}

func TestHeuristicLargeN(t *testing.T) {
	pts := make([][2]float64, 24)
	for i := range pts {
		pts[i] = [2]float64{float64((i * 11) % 7), float64((i * 5) % 9)}
	}
	m := pointsMatrix(pts)
	tour, mtr, err := Solve(m, 0, FieldDistance, 2*time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	assertPermutation(t, tour, 24)
	if mtr.Method != "heuristic" {
		t.Fatalf("method: got %q, want heuristic for n=24", mtr.Method)
	}
	naive := make(Tour, 24)
	for i := range naive {
		naive[i] = i
	}
	if got, want := cost(m, tour), cost(m, naive); got > want+1e-9 {
		t.Fatalf("heuristic cost %v worse than naive %v", got, want)
	}
}

func TestDurationObjective(t *testing.T) {
	// Distances tie everywhere; durations favor 0->2->1.
	m := matrix.New(3)
	set := func(i, j int, km, min float64) {
		d := min
		m.Cells[i][j] = matrix.Cell{DistanceKm: km, DurationMin: &d}
	}
	set(0, 1, 1, 10)
	set(1, 0, 1, 10)
	set(1, 2, 1, 10)
	set(2, 1, 1, 1)
	set(0, 2, 1, 1)
	set(2, 0, 1, 10)
	tour, mtr, err := Solve(m, 0, FieldDuration, time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if mtr.Field != FieldDuration {
		t.Fatalf("field: got %q, want duration", mtr.Field)
	}
	want := Tour{0, 2, 1}
	for i := range want {
		if tour[i] != want[i] {
			t.Fatalf("duration tour: got %v, want %v", tour, want)
		}
	}
}

func TestDurationObjectiveDegradesWhenMissing(t *testing.T) {
	pts := [][2]float64{{0, 0}, {1, 0}, {2, 0}}
	m := pointsMatrix(pts) // no durations at all
	_, mtr, err := Solve(m, 0, FieldDuration, time.Second)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if mtr.Field != FieldDistance {
		t.Fatalf("field: got %q, want distance fallback", mtr.Field)
	}
}

func TestInfeasibleMatrix(t *testing.T) {
	m := distMatrix([][]float64{
		{0, -1},
		{1, 0},
	})
	if _, _, err := Solve(m, 0, FieldDistance, time.Second); err == nil {
		t.Fatal("negative cell should be infeasible")
	}
	m = distMatrix([][]float64{
		{0, math.NaN()},
		{1, 0},
	})
	if _, _, err := Solve(m, 0, FieldDistance, time.Second); err == nil {
		t.Fatal("NaN cell should be infeasible")
	}
}

func TestMetricsStore(t *testing.T) {
	RecordMetrics("p1", Metrics{Method: "exact", N: 4})
	m, ok := GetMetrics("p1")
	if !ok || m.Method != "exact" || m.N != 4 {
		t.Fatalf("metrics store: got %+v ok=%v", m, ok)
	}
	if _, ok := GetMetrics("missing"); ok {
		t.Fatal("missing plan should have no metrics")
	}
}
