package model

// Core domain types shared across the planning pipeline and the API.

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SiteIn is a site as submitted by a client.
type SiteIn struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// StartIn marks an optional fixed starting location (e.g. the requester's
// current position). When present it becomes the first stop of the tour.
type StartIn struct {
	Label string  `json:"label,omitempty"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// PlanRequest is the body of POST /v1/plans.
type PlanRequest struct {
	Sites        []SiteIn `json:"sites"`
	Start        *StartIn `json:"start,omitempty"`
	CostField    string   `json:"costField,omitempty"` // distance (default) or duration
	TimeBudgetMs int      `json:"timeBudgetMs,omitempty"`
}

// Site is an immutable stop loaded into a run. IDs are 0-based and stable
// within the run; at most one site carries IsStart.
type Site struct {
	ID      int     `json:"id"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	IsStart bool    `json:"isStart,omitempty"`
}

// ItineraryEntry is one stop of the final itinerary. Leg values are the cost
// of arriving at this stop from the previous one; the first entry is zero.
// Duration pointers are nil when a leg cost came from the geodesic fallback.
type ItineraryEntry struct {
	VisitOrder            int      `json:"visitOrder"`
	Site                  Site     `json:"site"`
	LegDistanceKm         float64  `json:"legDistanceKm"`
	LegDurationMin        *float64 `json:"legDurationMin,omitempty"`
	CumulativeDistanceKm  float64  `json:"cumulativeDistanceKm"`
	CumulativeDurationMin *float64 `json:"cumulativeDurationMin,omitempty"`
}

// Plan is the persisted result of one optimization run.
type Plan struct {
	ID               string           `json:"id"`
	CreatedAt        string           `json:"createdAt"`
	CostField        string           `json:"costField"`
	Sites            []Site           `json:"sites"`
	Itinerary        []ItineraryEntry `json:"itinerary"`
	TotalDistanceKm  float64          `json:"totalDistanceKm"`
	TotalDurationMin *float64         `json:"totalDurationMin,omitempty"`
	Polyline         []GeoPoint       `json:"polyline"`
	DegradedCells    int              `json:"degradedCells,omitempty"`
}
