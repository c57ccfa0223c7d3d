package store

import (
	"context"
	"errors"

	"routeplan/internal/model"
)

// Store is the persistence interface used by the API server.
type Store interface {
	SavePlan(ctx context.Context, p model.Plan) error
	GetPlan(ctx context.Context, id string) (model.Plan, error)
	ListPlans(ctx context.Context, cursor string, limit int) (items []model.Plan, nextCursor string, err error)
	DeletePlan(ctx context.Context, id string) error
}

var ErrNotFound = errors.New("not found")
