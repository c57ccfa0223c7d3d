package api

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"routeplan/internal/matrix"
	"routeplan/internal/planner"
	"routeplan/internal/provider"
	"routeplan/internal/store"
)

type Server struct {
	Store   store.Store
	Planner *planner.Planner
	Broker  EventBroker
}

// NewServer wires the server from the environment. Without DATABASE_URL it
// uses the in-memory store; without ORS_API_KEY the matrix builder runs
// pure-geodesic; without REDIS_URL events stay in-process.
func NewServer() (*Server, error) {
	var s store.Store
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		if os.Getenv("DB_MIGRATE") != "false" {
			if err := sp.Migrate(context.Background()); err != nil {
				return nil, err
			}
		}
		s = sp
	}

	var rdb *redis.Client
	if url := os.Getenv("REDIS_URL"); url != "" {
		if opt, err := redis.ParseURL(url); err == nil {
			rdb = redis.NewClient(opt)
		}
	}

	var tc provider.TravelCostProvider
	if ors := provider.NewORSFromEnv(); ors != nil {
		tc = ors
		if rdb != nil {
			ttl := time.Duration(envInt("ROUTE_CACHE_TTL", 0)) * time.Second
			tc = provider.NewCached(ors, rdb, ttl)
		}
	}

	var broker EventBroker
	if rdb != nil {
		broker = NewRedisBroker(rdb)
	} else {
		broker = NewBroker()
	}

	p := &planner.Planner{
		Builder: &matrix.Builder{
			Provider: tc,
			Workers:  envInt("MATRIX_WORKERS", 8),
		},
		DefaultBudget: time.Duration(envInt("SOLVER_TIME_BUDGET_MS", 2000)) * time.Millisecond,
	}

	return &Server{Store: s, Planner: p, Broker: broker}, nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
