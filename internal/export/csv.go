package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"routeplan/internal/model"
)

// WriteItineraryCSV flattens a plan's itinerary into CSV rows for download.
// Unknown durations render as empty fields.
func WriteItineraryCSV(w io.Writer, p model.Plan) error {
	cw := csv.NewWriter(w)
	header := []string{"visit_order", "address", "lat", "lng", "leg_distance_km", "leg_duration_min", "cumulative_distance_km", "cumulative_duration_min"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range p.Itinerary {
		row := []string{
			strconv.Itoa(e.VisitOrder),
			e.Site.Address,
			strconv.FormatFloat(e.Site.Lat, 'f', 6, 64),
			strconv.FormatFloat(e.Site.Lng, 'f', 6, 64),
			strconv.FormatFloat(e.LegDistanceKm, 'f', 3, 64),
			formatMin(e.LegDurationMin),
			strconv.FormatFloat(e.CumulativeDistanceKm, 'f', 3, 64),
			formatMin(e.CumulativeDurationMin),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.VisitOrder, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMin(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
