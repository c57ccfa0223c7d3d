package api

import (
	"fmt"

	"routeplan/internal/geo"
	"routeplan/internal/model"
)

func validatePlanRequest(req *model.PlanRequest) error {
	if len(req.Sites) == 0 {
		return fmt.Errorf("at least one site is required")
	}
	if req.CostField != "" && req.CostField != "distance" && req.CostField != "duration" {
		return fmt.Errorf("invalid costField: %s (allowed: distance, duration)", req.CostField)
	}
	if req.TimeBudgetMs < 0 {
		return fmt.Errorf("timeBudgetMs must be >= 0")
	}
	for i, s := range req.Sites {
		if !(geo.Point{Lat: s.Lat, Lng: s.Lng}).Valid() {
			return fmt.Errorf("site %d: coordinates out of range (lat=%v, lng=%v)", i, s.Lat, s.Lng)
		}
	}
	if req.Start != nil {
		if !(geo.Point{Lat: req.Start.Lat, Lng: req.Start.Lng}).Valid() {
			return fmt.Errorf("start: coordinates out of range (lat=%v, lng=%v)", req.Start.Lat, req.Start.Lng)
		}
	}
	return nil
}
