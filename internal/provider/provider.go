package provider

import (
	"context"
	"errors"
	"fmt"

	"routeplan/internal/geo"
)

// Cost is a single pairwise travel-cost lookup result.
type Cost struct {
	DistanceKm  float64
	DurationMin float64
}

// TravelCostProvider returns real-world road distance and duration between
// two coordinates. Implementations are treated as unreliable: callers recover
// from errors with a geodesic fallback and never propagate them.
type TravelCostProvider interface {
	Lookup(ctx context.Context, origin, dest geo.Point) (Cost, error)
}

// ErrNoRoute is returned when the provider cannot produce a route between
// the given coordinates.
var ErrNoRoute = errors.New("no route between coordinates")

// pairKey identifies an ordered coordinate pair. Coordinates are rounded to
// five decimals (~1m) so cache keys stay stable across float noise.
func pairKey(origin, dest geo.Point) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", origin.Lat, origin.Lng, dest.Lat, dest.Lng)
}

// Static is an in-memory provider for tests and offline runs.
type Static struct {
	costs map[string]Cost
}

func NewStatic() *Static {
	return &Static{costs: map[string]Cost{}}
}

// Set registers the cost for the ordered pair origin→dest.
func (s *Static) Set(origin, dest geo.Point, c Cost) {
	s.costs[pairKey(origin, dest)] = c
}

func (s *Static) Lookup(_ context.Context, origin, dest geo.Point) (Cost, error) {
	c, ok := s.costs[pairKey(origin, dest)]
	if !ok {
		return Cost{}, ErrNoRoute
	}
	return c, nil
}
