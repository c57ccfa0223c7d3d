package itinerary

import (
	"fmt"

	"routeplan/internal/matrix"
	"routeplan/internal/model"
	"routeplan/internal/solver"
)

// Assemble walks the tour in order and annotates each stop with its leg cost
// and running totals. Pure function: no lookups beyond the matrix. Cumulative
// duration turns nil at the first leg whose duration is unknown and stays nil
// from there on.
func Assemble(tour solver.Tour, m *matrix.Matrix, sites []model.Site) ([]model.ItineraryEntry, error) {
	entries := make([]model.ItineraryEntry, 0, len(tour))
	cumKm := 0.0
	cumMin := new(float64)

	for pos, idx := range tour {
		if idx < 0 || idx >= len(sites) || idx >= m.N {
			return nil, fmt.Errorf("assemble: tour index %d out of range (sites=%d, matrix=%d)", idx, len(sites), m.N)
		}
		e := model.ItineraryEntry{VisitOrder: pos + 1, Site: sites[idx]}
		if pos > 0 {
			cell := m.Cells[tour[pos-1]][idx]
			e.LegDistanceKm = cell.DistanceKm
			cumKm += cell.DistanceKm
			if cell.DurationMin != nil {
				leg := *cell.DurationMin
				e.LegDurationMin = &leg
				if cumMin != nil {
					*cumMin += leg
				}
			} else {
				cumMin = nil
			}
		} else {
			// First stop carries zero leg and cumulative values.
			zero := 0.0
			e.LegDurationMin = &zero
		}
		e.CumulativeDistanceKm = cumKm
		if cumMin != nil {
			total := *cumMin
			e.CumulativeDurationMin = &total
		}
		entries = append(entries, e)
	}
	return entries, nil
}
