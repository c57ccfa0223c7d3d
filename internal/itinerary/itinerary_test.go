package itinerary

import (
	"math"
	"testing"

	"routeplan/internal/matrix"
	"routeplan/internal/model"
	"routeplan/internal/solver"
)

func sitesN(n int) []model.Site {
	out := make([]model.Site, n)
	for i := range out {
		out[i] = model.Site{ID: i, Address: "S", Lat: float64(i), Lng: 0}
	}
	return out
}

func fullMatrix(n int, km, min float64) *matrix.Matrix {
	m := matrix.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := min
			m.Cells[i][j] = matrix.Cell{DistanceKm: km, DurationMin: &d}
		}
	}
	return m
}

func TestAssembleTotals(t *testing.T) {
	m := fullMatrix(4, 2.5, 3)
	entries, err := Assemble(solver.Tour{0, 2, 1, 3}, m, sitesN(4))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("entries: got %d, want 4", len(entries))
	}

	first := entries[0]
	if first.VisitOrder != 1 || first.LegDistanceKm != 0 || first.CumulativeDistanceKm != 0 {
		t.Fatalf("first entry not zeroed: %+v", first)
	}
	if first.LegDurationMin == nil || *first.LegDurationMin != 0 {
		t.Fatalf("first entry leg duration: %+v", first.LegDurationMin)
	}

	prev := 0.0
	for i, e := range entries {
		if e.VisitOrder != i+1 {
			t.Fatalf("visit order at %d: got %d", i, e.VisitOrder)
		}
		if e.CumulativeDistanceKm < prev {
			t.Fatalf("cumulative distance decreased at %d", i)
		}
		prev = e.CumulativeDistanceKm
	}

	last := entries[3]
	if math.Abs(last.CumulativeDistanceKm-7.5) > 1e-9 {
		t.Fatalf("total distance: got %v, want 7.5", last.CumulativeDistanceKm)
	}
	if last.CumulativeDurationMin == nil || math.Abs(*last.CumulativeDurationMin-9) > 1e-9 {
		t.Fatalf("total duration: got %+v, want 9", last.CumulativeDurationMin)
	}
}

func TestAssembleUnknownDurationPropagates(t *testing.T) {
	m := fullMatrix(3, 1, 2)
	m.Cells[1][2] = matrix.Cell{DistanceKm: 1} // geodesic fallback cell

	entries, err := Assemble(solver.Tour{0, 1, 2}, m, sitesN(3))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if entries[1].CumulativeDurationMin == nil {
		t.Fatal("second entry should still have a cumulative duration")
	}
	if entries[2].LegDurationMin != nil {
		t.Fatal("fallback leg should have nil duration")
	}
	if entries[2].CumulativeDurationMin != nil {
		t.Fatal("cumulative duration should be nil once a leg is unknown")
	}
	// Distances keep accumulating regardless.
	if entries[2].CumulativeDistanceKm != 2 {
		t.Fatalf("cumulative distance: got %v, want 2", entries[2].CumulativeDistanceKm)
	}
}

func TestAssembleZeroMatrix(t *testing.T) {
	m := matrix.New(3)
	entries, err := Assemble(solver.Tour{0, 1, 2}, m, sitesN(3))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	for i, e := range entries {
		if e.CumulativeDistanceKm != 0 || e.LegDistanceKm != 0 {
			t.Fatalf("entry %d of zero matrix not zero: %+v", i, e)
		}
	}
}

func TestAssembleIndexOutOfRange(t *testing.T) {
	m := matrix.New(2)
	if _, err := Assemble(solver.Tour{0, 5}, m, sitesN(2)); err == nil {
		t.Fatal("out-of-range tour index should fail")
	}
}
