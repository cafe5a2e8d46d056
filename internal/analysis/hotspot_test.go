package analysis

import (
	"errors"
	"testing"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardize(t *testing.T) {
	scaled := Standardize([][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
	})

	require.Len(t, scaled, 3)
	for d := 0; d < 2; d++ {
		var sum, sq float64
		for _, row := range scaled {
			sum += row[d]
			sq += row[d] * row[d]
		}
		assert.InDelta(t, 0, sum/3, 1e-9, "mean of column %d", d)
		assert.InDelta(t, 1, sq/3, 1e-9, "variance of column %d", d)
	}
	for _, row := range scaled {
		assert.Zero(t, row[2], "constant column scales to zero")
	}
}

func TestKMeans(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0.1, 0.2}, {0.2, 0.1},
		{5, 5}, {5.1, 4.9}, {4.9, 5.2},
	}

	t.Run("separates obvious groups", func(t *testing.T) {
		res, err := KMeans(points, 2, 42, 300)
		require.NoError(t, err)

		a := res.Assignments
		assert.Equal(t, a[0], a[1])
		assert.Equal(t, a[0], a[2])
		assert.Equal(t, a[3], a[4])
		assert.Equal(t, a[3], a[5])
		assert.NotEqual(t, a[0], a[3])
	})

	t.Run("same seed same result", func(t *testing.T) {
		first, err := KMeans(points, 3, 7, 300)
		require.NoError(t, err)
		second, err := KMeans(points, 3, 7, 300)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("every cluster keeps a member with duplicate points", func(t *testing.T) {
		res, err := KMeans([][]float64{{1, 1}, {1, 1}, {1, 1}, {2, 2}}, 3, 42, 300)
		require.NoError(t, err)

		sizes := make(map[int]int)
		for _, c := range res.Assignments {
			sizes[c]++
		}
		assert.Len(t, sizes, 3)
	})

	t.Run("fewer points than clusters", func(t *testing.T) {
		_, err := KMeans(points[:2], 3, 42, 300)
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func TestClassifyHotspots(t *testing.T) {
	opts := DefaultClassifierOptions()

	t.Run("three locations land in their own clusters", func(t *testing.T) {
		summaries := []domain.LocationSummary{
			{Location: "A", TrafficVolume: 1200, AvgSpeed: 20, Accidents: 5},
			{Location: "B", TrafficVolume: 600, AvgSpeed: 50, Accidents: 0},
			{Location: "C", TrafficVolume: 1100, AvgSpeed: 22, Accidents: 4},
		}

		c, err := ClassifyHotspots(summaries, opts)
		require.NoError(t, err)

		assert.Len(t, c.Clusters, 3)
		for _, cluster := range c.Clusters {
			assert.Len(t, cluster.Members, 1)
		}
		require.Len(t, c.Hotspots, 1)
		assert.Equal(t, domain.Location("A"), c.Hotspots[0].Location)
		assert.Equal(t, c.Assignments["A"], c.Congested)
	})

	t.Run("two locations are insufficient", func(t *testing.T) {
		summaries := []domain.LocationSummary{
			{Location: "A", TrafficVolume: 1200, AvgSpeed: 20, Accidents: 5},
			{Location: "B", TrafficVolume: 600, AvgSpeed: 50, Accidents: 0},
		}

		_, err := ClassifyHotspots(summaries, opts)

		require.ErrorIs(t, err, domain.ErrInsufficientData)
		var insufficient *domain.InsufficientDataError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, 2, insufficient.Have)
		assert.Equal(t, 3, insufficient.Need)
	})

	t.Run("duplicate location is rejected", func(t *testing.T) {
		summaries := []domain.LocationSummary{
			{Location: "A", TrafficVolume: 1200, AvgSpeed: 20, Accidents: 5},
			{Location: "A", TrafficVolume: 1150, AvgSpeed: 21, Accidents: 4},
			{Location: "B", TrafficVolume: 600, AvgSpeed: 50, Accidents: 0},
			{Location: "C", TrafficVolume: 1100, AvgSpeed: 22, Accidents: 4},
		}

		_, err := ClassifyHotspots(summaries, opts)

		require.ErrorIs(t, err, domain.ErrInvalidData)
		var dataErr *domain.DataError
		require.True(t, errors.As(err, &dataErr))
		assert.Equal(t, domain.Location("A"), dataErr.Location)
		assert.Equal(t, "location", dataErr.Field)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ClassifyHotspots(nil, opts)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})

	t.Run("hotspot cluster has the highest mean volume", func(t *testing.T) {
		summaries, err := SummarizeLocations(generator.Generate(generator.DefaultConfig()))
		require.NoError(t, err)

		c, err := ClassifyHotspots(summaries, opts)
		require.NoError(t, err)
		require.NotEmpty(t, c.Hotspots)

		congested := c.Clusters[c.Congested]
		for _, cluster := range c.Clusters {
			if len(cluster.Members) == 0 {
				continue
			}
			assert.GreaterOrEqual(t, congested.TrafficVolume, cluster.TrafficVolume)
		}

		byLocation := make(map[domain.Location]domain.LocationSummary)
		for _, s := range summaries {
			byLocation[s.Location] = s
		}
		for _, h := range c.Hotspots {
			assert.Equal(t, byLocation[h.Location], h, "hotspot must be an input row")
			assert.Equal(t, c.Congested, c.Assignments[h.Location])
		}
	})

	t.Run("repeatable", func(t *testing.T) {
		summaries, err := SummarizeLocations(generator.Generate(generator.DefaultConfig()))
		require.NoError(t, err)

		first, err := ClassifyHotspots(summaries, opts)
		require.NoError(t, err)
		second, err := ClassifyHotspots(summaries, opts)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
