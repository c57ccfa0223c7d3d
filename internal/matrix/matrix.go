package matrix

// Cell is one directed entry of the travel-cost matrix. DurationMin is nil
// when the cost came from the geodesic fallback.
type Cell struct {
	DistanceKm  float64
	DurationMin *float64
}

// Matrix is a fully populated, directed N×N travel-cost matrix. Road costs
// can be asymmetric, so Cells[i][j] and Cells[j][i] are independent. The
// diagonal is always zero.
type Matrix struct {
	N     int
	Cells [][]Cell
}

// New allocates an n×n matrix with zero cells.
func New(n int) *Matrix {
	cells := make([][]Cell, n)
	for i := range cells {
		cells[i] = make([]Cell, n)
	}
	return &Matrix{N: n, Cells: cells}
}

// HasAllDurations reports whether every off-diagonal cell carries a duration.
func (m *Matrix) HasAllDurations() bool {
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			if i != j && m.Cells[i][j].DurationMin == nil {
				return false
			}
		}
	}
	return true
}
