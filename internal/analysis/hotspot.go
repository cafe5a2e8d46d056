package analysis

import (
	"fmt"

	"github.com/smartcity/hotspots/internal/domain"
)

// ClassifierOptions controls the hotspot clustering
type ClassifierOptions struct {
	Clusters      int
	Seed          int64
	MaxIterations int
}

// DefaultClassifierOptions returns k=3, seed 42 and a 300 round cap
func DefaultClassifierOptions() ClassifierOptions {
	return ClassifierOptions{
		Clusters:      3,
		Seed:          42,
		MaxIterations: 300,
	}
}

// ClassifyHotspots clusters location summaries on standardized volume, speed and
// accident features and returns the cluster with the highest mean traffic volume
// as hotspots. Ties between clusters go to the lowest cluster index. Each
// location may appear only once.
func ClassifyHotspots(summaries []domain.LocationSummary, opts ClassifierOptions) (domain.Classification, error) {
	if len(summaries) == 0 {
		return domain.Classification{}, fmt.Errorf("analysis: failed to classify hotspots: %w", domain.ErrEmptyInput)
	}

	// one row per location, otherwise Assignments could not describe every row
	distinct := make(map[domain.Location]struct{}, len(summaries))
	for _, s := range summaries {
		if _, seen := distinct[s.Location]; seen {
			return domain.Classification{}, fmt.Errorf("analysis: failed to classify hotspots: %w",
				&domain.DataError{Location: s.Location, Field: "location", Reason: "appears in more than one summary row"})
		}
		distinct[s.Location] = struct{}{}
	}
	if len(distinct) < opts.Clusters {
		return domain.Classification{}, fmt.Errorf("analysis: failed to classify hotspots: %w",
			&domain.InsufficientDataError{Have: len(distinct), Need: opts.Clusters})
	}

	features := make([][]float64, len(summaries))
	for i, s := range summaries {
		features[i] = []float64{s.TrafficVolume, s.AvgSpeed, float64(s.Accidents)}
	}

	result, err := KMeans(Standardize(features), opts.Clusters, opts.Seed, opts.MaxIterations)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("analysis: failed to classify hotspots: %w", err)
	}

	clusters := make([]domain.Cluster, opts.Clusters)
	for c := range clusters {
		clusters[c].Index = c
	}
	assignments := make(map[domain.Location]int, len(summaries))
	for i, s := range summaries {
		c := result.Assignments[i]
		assignments[s.Location] = c
		clusters[c].Members = append(clusters[c].Members, s.Location)
		clusters[c].TrafficVolume += s.TrafficVolume
		clusters[c].AvgSpeed += s.AvgSpeed
	}

	congested := -1
	for c := range clusters {
		size := float64(len(clusters[c].Members))
		if size == 0 {
			continue
		}
		clusters[c].TrafficVolume /= size
		clusters[c].AvgSpeed /= size
		if congested < 0 || clusters[c].TrafficVolume > clusters[congested].TrafficVolume {
			congested = c
		}
	}

	var hotspots []domain.LocationSummary
	for i, s := range summaries {
		if result.Assignments[i] == congested {
			hotspots = append(hotspots, s)
		}
	}

	return domain.Classification{
		Assignments: assignments,
		Clusters:    clusters,
		Congested:   congested,
		Hotspots:    hotspots,
		Iterations:  result.Iterations,
	}, nil
}
