package store

import (
	"context"
	"sync"

	"routeplan/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu    sync.Mutex
	plans map[string]model.Plan
	order []string // insertion order for cursor pagination
}

func NewMemory() *Memory {
	return &Memory{plans: map[string]model.Plan{}}
}

func (m *Memory) SavePlan(_ context.Context, p model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.plans[p.ID]; !exists {
		m.order = append(m.order, p.ID)
	}
	m.plans[p.ID] = p
	return nil
}

func (m *Memory) GetPlan(_ context.Context, id string) (model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return model.Plan{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) ListPlans(_ context.Context, cursor string, limit int) ([]model.Plan, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := 0
	if cursor != "" {
		for i, id := range m.order {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = 100
	}
	out := []model.Plan{}
	var next string
	for i := start; i < len(m.order) && len(out) < limit; i++ {
		out = append(out, m.plans[m.order[i]])
		next = m.order[i]
	}
	if start+len(out) >= len(m.order) {
		next = ""
	}
	return out, next, nil
}

func (m *Memory) DeletePlan(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return ErrNotFound
	}
	delete(m.plans, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
