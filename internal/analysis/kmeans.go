package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/pkg/utils"
)

// Standardize scales every column to zero mean and unit population variance.
// A column with zero variance scales to all zeros.
func Standardize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])
	scaled := make([][]float64, len(rows))
	for i := range scaled {
		scaled[i] = make([]float64, dims)
	}

	column := make([]float64, len(rows))
	for d := 0; d < dims; d++ {
		for i, row := range rows {
			column[i] = row[d]
		}
		mean := utils.Mean(column)
		std := utils.StdDev(column)
		for i := range rows {
			if std == 0 {
				scaled[i][d] = 0
				continue
			}
			scaled[i][d] = (column[i] - mean) / std
		}
	}
	return scaled
}

// KMeansResult holds the final partition
type KMeansResult struct {
	Assignments []int
	Centroids   [][]float64
	Iterations  int
}

// KMeans partitions points into k clusters by Lloyd's algorithm with
// k-means++ seeding drawn from a source seeded with seed. It stops when no
// assignment changes or after maxIter rounds.
func KMeans(points [][]float64, k int, seed int64, maxIter int) (KMeansResult, error) {
	n := len(points)
	if n == 0 {
		return KMeansResult{}, fmt.Errorf("kmeans: %w", domain.ErrEmptyInput)
	}
	if k <= 0 {
		return KMeansResult{}, fmt.Errorf("kmeans: cluster count must be positive, got %d", k)
	}
	if n < k {
		return KMeansResult{}, &domain.InsufficientDataError{Have: n, Need: k}
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	iter := 0
	for iter < maxIter {
		iter++
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if assign[i] >= 0 && squaredDistance(p, centroids[assign[i]]) == squaredDistance(p, centroids[c]) {
				// stay put on ties so a re-seeded cluster keeps its point
				c = assign[i]
			}
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		updateCentroids(points, assign, centroids)
	}

	return KMeansResult{Assignments: assign, Centroids: centroids, Iterations: iter}, nil
}

func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	chosen := make([]bool, len(points))
	first := rng.Intn(len(points))
	chosen[first] = true
	centroids := [][]float64{clonePoint(points[first])}

	dist := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			dist[i] = squaredDistance(p, centroids[nearest(p, centroids)])
			total += dist[i]
		}

		next := -1
		if total > 0 {
			r := rng.Float64() * total
			var cum float64
			for i, d := range dist {
				if d == 0 {
					continue
				}
				cum += d
				next = i
				if cum > r {
					break
				}
			}
		}
		if next < 0 {
			// every point coincides with a centroid; take the first unused one
			for i := range points {
				if !chosen[i] {
					next = i
					break
				}
			}
		}
		chosen[next] = true
		centroids = append(centroids, clonePoint(points[next]))
	}
	return centroids
}

func updateCentroids(points [][]float64, assign []int, centroids [][]float64) {
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
		for d := 0; d < dims; d++ {
			centroids[c][d] += p[d]
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for d := 0; d < dims; d++ {
			centroids[c][d] /= float64(counts[c])
		}
	}

	// An emptied cluster takes over the point lying farthest from its own
	// centroid, drawn from a cluster that can spare it.
	for c := range centroids {
		if counts[c] != 0 {
			continue
		}
		far, farDist := -1, -1.0
		for i, p := range points {
			if counts[assign[i]] < 2 {
				continue
			}
			if d := squaredDistance(p, centroids[assign[i]]); d > farDist {
				far, farDist = i, d
			}
		}
		if far < 0 {
			continue
		}
		counts[assign[far]]--
		assign[far] = c
		counts[c] = 1
		copy(centroids[c], points[far])
	}
}

// nearest returns the closest centroid; ties go to the lowest index
func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clonePoint(p []float64) []float64 {
	return append([]float64(nil), p...)
}
