// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package cluster

import (
	"math"
	"math/rand"
)

const (
	// kmeansSeed pins the random source so repeated runs over the same
	// snapshot produce identical clusters.
	kmeansSeed = 42
	// kmeansRestarts is the number of independent initializations; the
	// run with the lowest inertia wins.
	kmeansRestarts = 10
	// kmeansMaxIters bounds each Lloyd iteration loop.
	kmeansMaxIters = 300
)

// standardize rescales each feature column to zero mean and unit
// variance. A column with no variance is left at zero so it cannot
// dominate the distance metric.
func standardize(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return nil
	}
	dims := len(points[0])
	n := float64(len(points))

	means := make([]float64, dims)
	for _, p := range points {
		for d, v := range p {
			means[d] += v
		}
	}
	for d := range means {
		means[d] /= n
	}

	stddevs := make([]float64, dims)
	for _, p := range points {
		for d, v := range p {
			diff := v - means[d]
			stddevs[d] += diff * diff
		}
	}
	for d := range stddevs {
		stddevs[d] = math.Sqrt(stddevs[d] / n)
	}

	scaled := make([][]float64, len(points))
	for i, p := range points {
		row := make([]float64, dims)
		for d, v := range p {
			if stddevs[d] > 0 {
				row[d] = (v - means[d]) / stddevs[d]
			}
		}
		scaled[i] = row
	}
	return scaled
}

// runKMeans clusters the points into k groups, returning one cluster
// index per point. Points must be non-empty and k in [1, len(points)].
func runKMeans(points [][]float64, k int) []int {
	rng := rand.New(rand.NewSource(kmeansSeed))

	bestInertia := math.Inf(1)
	var best []int
	for r := 0; r < kmeansRestarts; r++ {
		assign, inertia := kmeansOnce(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			best = assign
		}
	}
	return best
}

func kmeansOnce(points [][]float64, k int, rng *rand.Rand) ([]int, float64) {
	centroids := seedCentroids(points, k, rng)
	assign := make([]int, len(points))

	for iter := 0; iter < kmeansMaxIters; iter++ {
		changed := false
		for i, p := range points {
			c := nearestCentroid(p, centroids)
			if assign[i] != c {
				assign[i] = c
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}
		recomputeCentroids(points, assign, centroids, rng)
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centroids[assign[i]])
	}
	return assign, inertia
}

// seedCentroids picks initial centroids with the k-means++ scheme: the
// first uniformly, each subsequent one weighted by squared distance to
// the nearest centroid already chosen.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if sd := squaredDistance(p, c); sd < d {
					d = sd
				}
			}
			dists[i] = d
			total += d
		}
		idx := len(points) - 1
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dists {
				target -= d
				if target <= 0 {
					idx = i
					break
				}
			}
		} else {
			// All points coincide with a centroid already.
			idx = rng.Intn(len(points))
		}
		centroids = append(centroids, clonePoint(points[idx]))
	}
	return centroids
}

func recomputeCentroids(points [][]float64, assign []int, centroids [][]float64, rng *rand.Rand) {
	dims := len(points[0])
	counts := make([]int, len(centroids))
	for c := range centroids {
		for d := 0; d < dims; d++ {
			centroids[c][d] = 0
		}
	}
	for i, p := range points {
		c := assign[i]
		counts[c]++
		for d, v := range p {
			centroids[c][d] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			// Re-seed an emptied cluster from a random point.
			copy(centroids[c], points[rng.Intn(len(points))])
			continue
		}
		for d := 0; d < dims; d++ {
			centroids[c][d] /= float64(counts[c])
		}
	}
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for d := range a {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return sum
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
