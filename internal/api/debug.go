package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"routeplan/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, _ *http.Request) {
	info := map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"PORT":                  os.Getenv("PORT"),
			"MATRIX_WORKERS":        os.Getenv("MATRIX_WORKERS"),
			"SOLVER_TIME_BUDGET_MS": os.Getenv("SOLVER_TIME_BUDGET_MS"),
			"ORS_PROFILE":           os.Getenv("ORS_PROFILE"),
			"HAS_ORS_API_KEY":       os.Getenv("ORS_API_KEY") != "",
			"HAS_DATABASE_URL":      os.Getenv("DATABASE_URL") != "",
			"HAS_REDIS_URL":         os.Getenv("REDIS_URL") != "",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
