package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"routeplan/internal/export"
	"routeplan/internal/matrix"
	"routeplan/internal/metrics"
	"routeplan/internal/model"
	"routeplan/internal/solver"
	"routeplan/internal/store"
)

// PlansHandler handles POST/GET /v1/plans
func (s *Server) PlansHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req model.PlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validatePlanRequest(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid plan request", err.Error(), r.URL.Path)
			return
		}
		id := uuid.New().String()
		plan, err := s.Planner.BuildPlan(r.Context(), id, req, func(typ string, data map[string]any) {
			s.Broker.Publish(id, PlanEvent{Type: typ, Data: data})
		})
		if err != nil {
			if errors.Is(err, matrix.ErrTooFewSites) {
				writeProblem(w, http.StatusBadRequest, "Too few sites", err.Error(), r.URL.Path)
				return
			}
			if errors.Is(err, solver.ErrInfeasible) {
				writeProblem(w, http.StatusInternalServerError, "Infeasible cost matrix", err.Error(), r.URL.Path)
				return
			}
			writeProblem(w, http.StatusInternalServerError, "Plan failed", err.Error(), r.URL.Path)
			return
		}
		if err := s.Store.SavePlan(r.Context(), plan); err != nil {
			writeProblem(w, http.StatusInternalServerError, "Save plan failed", err.Error(), r.URL.Path)
			return
		}
		metrics.PlansCreated.Inc()
		writeJSON(w, http.StatusCreated, plan)
	case http.MethodGet:
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		items, next, err := s.Store.ListPlans(r.Context(), cursor, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List plans failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// PlanByIDHandler handles /v1/plans/{id} and its subresources
// (/export.csv, /events/ws).
func (s *Server) PlanByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/plans/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		writeProblem(w, http.StatusNotFound, "Not found", "plan id required", r.URL.Path)
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "export.csv":
			s.exportCSV(w, r, id)
		case "events/ws":
			s.PlanEventsWSHandler(w, r, id)
		default:
			writeProblem(w, http.StatusNotFound, "Not found", "unknown plan resource", r.URL.Path)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		plan, err := s.Store.GetPlan(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Plan not found", id, r.URL.Path)
			return
		}
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Get plan failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	case http.MethodDelete:
		err := s.Store.DeletePlan(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Plan not found", id, r.URL.Path)
			return
		}
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Delete plan failed", err.Error(), r.URL.Path)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	plan, err := s.Store.GetPlan(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Plan not found", id, r.URL.Path)
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Get plan failed", err.Error(), r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "itinerary-"+id+".csv"))
	if err := export.WriteItineraryCSV(w, plan); err != nil {
		// headers already sent; log-and-drop is all we can do
		return
	}
}

// PlanMetricsHandler handles GET /v1/admin/plan-metrics?planId=
func (s *Server) PlanMetricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("planId")
	if id == "" {
		writeProblem(w, http.StatusBadRequest, "Missing planId", "planId query parameter required", r.URL.Path)
		return
	}
	m, ok := solver.GetMetrics(id)
	if !ok {
		writeProblem(w, http.StatusNotFound, "No metrics", "no solver metrics recorded for plan "+id, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HealthHandler handles GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler handles GET /readyz
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// The store is the only hard dependency; a cheap list proves it answers.
	if _, _, err := s.Store.ListPlans(r.Context(), "", 1); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Store unavailable", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
