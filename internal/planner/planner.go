package planner

import (
	"context"
	"fmt"
	"time"

	"routeplan/internal/itinerary"
	"routeplan/internal/matrix"
	"routeplan/internal/model"
	"routeplan/internal/solver"
)

// ProgressFunc receives pipeline milestones for event streaming. May be nil.
type ProgressFunc func(eventType string, data map[string]any)

// Planner runs the optimization pipeline: cost matrix, tour solve, itinerary
// assembly. It is stateless across invocations; every run owns its artifacts.
type Planner struct {
	Builder       *matrix.Builder
	DefaultBudget time.Duration
}

// BuildPlan produces a plan for the request. The caller supplies the plan ID
// so events can be correlated before the plan is persisted.
func (p *Planner) BuildPlan(ctx context.Context, id string, req model.PlanRequest, progress ProgressFunc) (model.Plan, error) {
	emit := func(typ string, data map[string]any) {
		if progress != nil {
			if data == nil {
				data = map[string]any{}
			}
			data["planId"] = id
			progress(typ, data)
		}
	}

	sites := loadSites(req)
	field := req.CostField
	if field == "" {
		field = string(solver.FieldDistance)
	}
	emit("plan.started", map[string]any{"sites": len(sites), "costField": field})

	plan := model.Plan{
		ID:        id,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		CostField: field,
		Sites:     sites,
	}

	// A single site needs no solver: the itinerary is the site itself.
	if len(sites) == 1 {
		zero := 0.0
		plan.Itinerary = []model.ItineraryEntry{{
			VisitOrder:            1,
			Site:                  sites[0],
			LegDurationMin:        &zero,
			CumulativeDurationMin: &zero,
		}}
		plan.TotalDurationMin = &zero
		plan.Polyline = []model.GeoPoint{{Lat: sites[0].Lat, Lng: sites[0].Lng}}
		emit("plan.completed", map[string]any{"totalDistanceKm": 0.0})
		return plan, nil
	}

	m, degraded, err := p.Builder.Build(ctx, sites)
	if err != nil {
		emit("plan.failed", map[string]any{"error": err.Error()})
		return model.Plan{}, err
	}
	plan.DegradedCells = degraded
	emit("plan.matrix.built", map[string]any{"dimension": m.N, "degradedCells": degraded})

	fixedStart := -1
	if req.Start != nil {
		fixedStart = 0
	}
	budget := p.DefaultBudget
	if req.TimeBudgetMs > 0 {
		budget = time.Duration(req.TimeBudgetMs) * time.Millisecond
	}
	tour, mtr, err := solver.Solve(m, fixedStart, solver.CostField(field), budget)
	if err != nil {
		emit("plan.failed", map[string]any{"error": err.Error()})
		return model.Plan{}, fmt.Errorf("solve tour: %w", err)
	}
	solver.RecordMetrics(id, mtr)

	entries, err := itinerary.Assemble(tour, m, sites)
	if err != nil {
		emit("plan.failed", map[string]any{"error": err.Error()})
		return model.Plan{}, fmt.Errorf("assemble itinerary: %w", err)
	}
	plan.Itinerary = entries

	last := entries[len(entries)-1]
	plan.TotalDistanceKm = last.CumulativeDistanceKm
	plan.TotalDurationMin = last.CumulativeDurationMin
	plan.Polyline = make([]model.GeoPoint, 0, len(entries))
	for _, e := range entries {
		plan.Polyline = append(plan.Polyline, model.GeoPoint{Lat: e.Site.Lat, Lng: e.Site.Lng})
	}

	emit("plan.completed", map[string]any{
		"totalDistanceKm": plan.TotalDistanceKm,
		"method":          mtr.Method,
		"finalCost":       mtr.FinalCost,
	})
	return plan, nil
}

// loadSites converts the request into the run's immutable site list. A fixed
// start is inserted at index 0; other sites keep their submitted order.
func loadSites(req model.PlanRequest) []model.Site {
	sites := make([]model.Site, 0, len(req.Sites)+1)
	if req.Start != nil {
		label := req.Start.Label
		if label == "" {
			label = "Current location"
		}
		sites = append(sites, model.Site{ID: 0, Address: label, Lat: req.Start.Lat, Lng: req.Start.Lng, IsStart: true})
	}
	for _, s := range req.Sites {
		sites = append(sites, model.Site{ID: len(sites), Address: s.Address, Lat: s.Lat, Lng: s.Lng})
	}
	return sites
}
