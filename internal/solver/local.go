package solver

import (
	"math"
	"time"
)

// nearestNeighbor builds a path from start, always hopping to the cheapest
// unvisited index. Ties break toward the lowest destination index because the
// scan is ascending and only strict improvements replace the candidate.
func nearestNeighbor(w []float64, n, start int) Tour {
	visited := make([]bool, n)
	visited[start] = true
	tour := make(Tour, 1, n)
	tour[0] = start
	cur := start
	for len(tour) < n {
		next := -1
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if c := w[cur*n+j]; c < best {
				best = c
				next = j
			}
		}
		visited[next] = true
		tour = append(tour, next)
		cur = next
	}
	return tour
}

// localSearch improves the seed with alternating 2-opt and Or-opt passes
// until neither finds an improving move or the deadline passes. Position 0
// is pinned; the matrix is directed, so candidate costs are recomputed in
// full rather than via a symmetric delta.
func localSearch(w []float64, n int, seed Tour, deadline time.Time, mtr *Metrics) Tour {
	cur := append(Tour(nil), seed...)
	cost := tourCost(w, n, cur)
	cand := make(Tour, n)

	expired := func() bool {
		return !deadline.IsZero() && !time.Now().Before(deadline)
	}

	improved := true
	for improved {
		if expired() {
			mtr.TimedOut = true
			break
		}
		improved = false
		mtr.Passes++

		// 2-opt: reverse segment [i..k] of the free positions.
		for i := 1; i < n-1; i++ {
			if expired() {
				mtr.TimedOut = true
				return cur
			}
			for k := i + 1; k < n; k++ {
				copy(cand, cur)
				for a, b := i, k; a < b; a, b = a+1, b-1 {
					cand[a], cand[b] = cand[b], cand[a]
				}
				if c := tourCost(w, n, cand); c+eps < cost {
					copy(cur, cand)
					cost = c
					improved = true
					mtr.Improvements++
				}
			}
		}

		// Or-opt: relocate a single stop to another free position.
		for i := 1; i < n; i++ {
			if expired() {
				mtr.TimedOut = true
				return cur
			}
			for j := 1; j < n; j++ {
				if j == i {
					continue
				}
				relocate(cand, cur, i, j)
				if c := tourCost(w, n, cand); c+eps < cost {
					copy(cur, cand)
					cost = c
					improved = true
					mtr.Improvements++
				}
			}
		}
	}
	return cur
}

// relocate writes into dst a copy of src with the element at position i
// removed and re-inserted so it lands at position j.
func relocate(dst, src Tour, i, j int) {
	pos := 0
	for p := 0; p < len(src); p++ {
		if p == i {
			continue
		}
		dst[pos] = src[p]
		pos++
	}
	node := src[i]
	copy(dst[j+1:], dst[j:len(src)-1])
	dst[j] = node
}
