package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"routeplan/internal/model"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Migrate creates the plans table if missing (dev helper; production runs
// migrations out of band).
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS plans (
            id UUID PRIMARY KEY,
            created_at TIMESTAMPTZ NOT NULL,
            cost_field TEXT NOT NULL,
            total_distance_km DOUBLE PRECISION NOT NULL,
            total_duration_min DOUBLE PRECISION,
            degraded_cells INT NOT NULL DEFAULT 0,
            sites JSONB NOT NULL,
            itinerary JSONB NOT NULL,
            polyline JSONB NOT NULL
        )`)
	return err
}

func (p *Postgres) SavePlan(ctx context.Context, pl model.Plan) error {
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO plans (id, created_at, cost_field, total_distance_km, total_duration_min, degraded_cells, sites, itinerary, polyline)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (id) DO NOTHING`,
		pl.ID, pl.CreatedAt, pl.CostField, pl.TotalDistanceKm, nullableFloat(pl.TotalDurationMin), pl.DegradedCells,
		toJSON(pl.Sites), toJSON(pl.Itinerary), toJSON(pl.Polyline))
	if err != nil {
		return fmt.Errorf("save plan %s: %w", pl.ID, err)
	}
	return nil
}

func (p *Postgres) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	row := p.db.QueryRowContext(ctx, `
        SELECT id::text, created_at::text, cost_field, total_distance_km, total_duration_min, degraded_cells, sites, itinerary, polyline
        FROM plans WHERE id = $1`, id)
	pl, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Plan{}, ErrNotFound
	}
	return pl, err
}

func (p *Postgres) ListPlans(ctx context.Context, cursor string, limit int) ([]model.Plan, string, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
        SELECT id::text, created_at::text, cost_field, total_distance_km, total_duration_min, degraded_cells, sites, itinerary, polyline
        FROM plans`
	args := []any{}
	if cursor != "" {
		query += ` WHERE created_at > (SELECT created_at FROM plans WHERE id = $1)`
		args = append(args, cursor)
	}
	query += fmt.Sprintf(` ORDER BY created_at ASC LIMIT %d`, limit)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := []model.Plan{}
	var next string
	for rows.Next() {
		pl, err := scanPlan(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, pl)
		next = pl.ID
	}
	if len(out) < limit {
		next = ""
	}
	return out, next, rows.Err()
}

func (p *Postgres) DeletePlan(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(r rowScanner) (model.Plan, error) {
	var pl model.Plan
	var totalMin sql.NullFloat64
	var sites, itin, poly []byte
	if err := r.Scan(&pl.ID, &pl.CreatedAt, &pl.CostField, &pl.TotalDistanceKm, &totalMin, &pl.DegradedCells, &sites, &itin, &poly); err != nil {
		return model.Plan{}, err
	}
	if totalMin.Valid {
		v := totalMin.Float64
		pl.TotalDurationMin = &v
	}
	if err := json.Unmarshal(sites, &pl.Sites); err != nil {
		return model.Plan{}, fmt.Errorf("decode sites: %w", err)
	}
	if err := json.Unmarshal(itin, &pl.Itinerary); err != nil {
		return model.Plan{}, fmt.Errorf("decode itinerary: %w", err)
	}
	if err := json.Unmarshal(poly, &pl.Polyline); err != nil {
		return model.Plan{}, fmt.Errorf("decode polyline: %w", err)
	}
	return pl, nil
}

func toJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
