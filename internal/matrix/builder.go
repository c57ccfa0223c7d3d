package matrix

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"routeplan/internal/geo"
	"routeplan/internal/metrics"
	"routeplan/internal/model"
	"routeplan/internal/provider"
)

// ErrTooFewSites is returned when fewer than two sites are supplied; a tour
// is undefined for 0 or 1 site and callers short-circuit before building.
var ErrTooFewSites = errors.New("at least two sites are required")

// Builder turns a site list into a directed travel-cost matrix. Pairwise
// lookups go through Provider when set; each failed or missing lookup
// degrades to a haversine estimate for that cell only.
type Builder struct {
	Provider provider.TravelCostProvider // nil means pure-geodesic
	Workers  int                         // concurrent lookups, default 8
}

// Build populates the full matrix for sites (start already inserted at index
// 0 by the caller when present). It returns the number of degraded cells,
// i.e. provider lookups replaced by the geodesic fallback.
func (b *Builder) Build(ctx context.Context, sites []model.Site) (*Matrix, int, error) {
	if len(sites) < 2 {
		return nil, 0, ErrTooFewSites
	}
	start := time.Now()
	n := len(sites)
	m := New(n)

	if b.Provider == nil {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				m.Cells[i][j] = geodesicCell(sites[i], sites[j])
			}
		}
		metrics.MatrixBuildDuration.Observe(time.Since(start).Seconds())
		return m, 0, nil
	}

	type pair struct{ i, j int }
	jobs := make(chan pair)
	workers := b.Workers
	if workers <= 0 {
		workers = 8
	}
	if total := n * (n - 1); workers > total {
		workers = total
	}

	var degraded atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				// Each pair owns its own cell; no write overlaps across workers.
				origin := geo.Point{Lat: sites[p.i].Lat, Lng: sites[p.i].Lng}
				dest := geo.Point{Lat: sites[p.j].Lat, Lng: sites[p.j].Lng}
				cost, err := b.Provider.Lookup(ctx, origin, dest)
				if err != nil {
					log.Printf("matrix: lookup %d->%d degraded to geodesic: %v", p.i, p.j, err)
					metrics.ProviderLookups.WithLabelValues("fallback").Inc()
					degraded.Add(1)
					m.Cells[p.i][p.j] = geodesicCell(sites[p.i], sites[p.j])
					continue
				}
				metrics.ProviderLookups.WithLabelValues("ok").Inc()
				dur := cost.DurationMin
				m.Cells[p.i][p.j] = Cell{DistanceKm: cost.DistanceKm, DurationMin: &dur}
			}
		}()
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				jobs <- pair{i, j}
			}
		}
	}
	close(jobs)
	wg.Wait()

	metrics.MatrixBuildDuration.Observe(time.Since(start).Seconds())
	return m, int(degraded.Load()), nil
}

func geodesicCell(a, b model.Site) Cell {
	d := geo.HaversineKm(geo.Point{Lat: a.Lat, Lng: a.Lng}, geo.Point{Lat: b.Lat, Lng: b.Lng})
	return Cell{DistanceKm: d}
}
