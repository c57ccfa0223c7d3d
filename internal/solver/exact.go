package solver

import "math"

// heldKarp solves the open-path problem exactly by dynamic programming over
// subsets. dp[mask][j] is the minimum cost of a path that starts at start,
// visits exactly the vertices in mask, and ends at j. Unlike the classic
// cycle form there is no closing leg: the answer is the cheapest dp over the
// full mask across all terminal vertices, lowest index winning ties.
func heldKarp(w []float64, n, start int) Tour {
	size := 1 << n
	dp := make([][]float64, size)
	parent := make([][]int8, size)
	for mask := 0; mask < size; mask++ {
		dp[mask] = make([]float64, n)
		parent[mask] = make([]int8, n)
		for j := 0; j < n; j++ {
			dp[mask][j] = math.Inf(1)
			parent[mask][j] = -1
		}
	}
	startMask := 1 << start
	dp[startMask][start] = 0

	for mask := 0; mask < size; mask++ {
		if mask&startMask == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if j == start || mask&(1<<j) == 0 {
				continue
			}
			prev := mask ^ (1 << j)
			best := math.Inf(1)
			bestK := -1
			for k := 0; k < n; k++ {
				if prev&(1<<k) == 0 {
					continue
				}
				cand := dp[prev][k] + w[k*n+j]
				if cand < best {
					best = cand
					bestK = k
				}
			}
			dp[mask][j] = best
			parent[mask][j] = int8(bestK)
		}
	}

	full := size - 1
	last := start
	best := math.Inf(1)
	for j := 0; j < n; j++ {
		if n > 1 && j == start {
			continue
		}
		if dp[full][j] < best {
			best = dp[full][j]
			last = j
		}
	}

	tour := make(Tour, n)
	mask := full
	j := last
	for i := n - 1; i >= 0; i-- {
		tour[i] = j
		p := parent[mask][j]
		mask ^= 1 << j
		if p < 0 {
			break
		}
		j = int(p)
	}
	return tour
}
