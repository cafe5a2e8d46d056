package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

func observation(loc domain.Location, hour, dayOfWeek, volume int, speed float64, timing, accidents int) domain.Observation {
	return domain.Observation{
		Timestamp:     monday.Add(time.Duration(dayOfWeek*24+hour) * time.Hour),
		Location:      loc,
		TrafficVolume: volume,
		AvgSpeed:      speed,
		SignalTiming:  timing,
		Accidents:     accidents,
		RoadCondition: 5,
		Hour:          hour,
		DayOfWeek:     dayOfWeek,
	}
}

func TestSummarizeLocations(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		summaries, err := SummarizeLocations(nil)

		assert.ErrorIs(t, err, domain.ErrEmptyInput)
		assert.Nil(t, summaries)
	})

	t.Run("means and accident totals per location", func(t *testing.T) {
		obs := []domain.Observation{
			observation(domain.Whitefield, 8, 0, 1000, 40, 60, 1),
			observation(domain.Hebbal, 8, 0, 400, 50, 30, 0),
			observation(domain.Whitefield, 9, 0, 1200, 30, 70, 1),
			observation(domain.Hebbal, 9, 0, 600, 56, 40, 1),
		}

		summaries, err := SummarizeLocations(obs)
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		assert.Equal(t, domain.LocationSummary{Location: domain.Hebbal, TrafficVolume: 500, AvgSpeed: 53, Accidents: 1}, summaries[0])
		assert.Equal(t, domain.LocationSummary{Location: domain.Whitefield, TrafficVolume: 1100, AvgSpeed: 35, Accidents: 2}, summaries[1])
	})

	t.Run("generated week is non-negative and deterministic", func(t *testing.T) {
		obs := generator.Generate(generator.DefaultConfig())

		first, err := SummarizeLocations(obs)
		require.NoError(t, err)
		second, err := SummarizeLocations(obs)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, first, len(domain.AllLocations()))
		for _, s := range first {
			assert.GreaterOrEqual(t, s.TrafficVolume, 0.0, s.Location)
			assert.GreaterOrEqual(t, s.Accidents, 0, s.Location)
		}
	})
}

func TestEfficiency(t *testing.T) {
	t.Run("equal speed and timing is exactly 100", func(t *testing.T) {
		eff, err := Efficiency(60, 60)
		require.NoError(t, err)
		assert.Equal(t, 100.0, eff)
	})

	t.Run("doubling timing halves efficiency", func(t *testing.T) {
		base, err := Efficiency(45, 30)
		require.NoError(t, err)
		doubled, err := Efficiency(45, 60)
		require.NoError(t, err)

		assert.InDelta(t, base/2, doubled, 1e-9)
	})

	t.Run("zero timing is a data error", func(t *testing.T) {
		eff, err := Efficiency(45, 0)

		assert.ErrorIs(t, err, domain.ErrInvalidData)
		assert.Zero(t, eff)
	})

	t.Run("non-finite speed is a data error", func(t *testing.T) {
		for _, speed := range []float64{math.NaN(), math.Inf(1)} {
			eff, err := Efficiency(speed, 60)

			assert.ErrorIs(t, err, domain.ErrInvalidData, "speed %v", speed)
			assert.Zero(t, eff)
		}
	})
}

func TestSignalEfficiency(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := SignalEfficiency([]domain.Observation{})
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})

	t.Run("groups by location and period sorted by efficiency", func(t *testing.T) {
		obs := []domain.Observation{
			observation(domain.MGRoad, 2, 0, 200, 58, 30, 0),   // Night
			observation(domain.MGRoad, 4, 0, 300, 56, 34, 0),   // Night
			observation(domain.MGRoad, 9, 0, 1500, 30, 90, 0),  // Morning
			observation(domain.Hebbal, 13, 0, 900, 50, 50, 0),  // Afternoon
			observation(domain.Hebbal, 19, 0, 1000, 40, 80, 0), // Evening
		}

		rows, err := SignalEfficiency(obs)
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, domain.MGRoad, rows[0].Location)
		assert.Equal(t, domain.Morning, rows[0].Period)
		assert.InDelta(t, 30.0/90*100, rows[0].Efficiency, 1e-9)

		night := rows[len(rows)-1]
		assert.Equal(t, domain.Night, night.Period)
		assert.Equal(t, 250.0, night.TrafficVolume)
		assert.Equal(t, 32.0, night.SignalTiming)
		assert.Equal(t, 57.0, night.AvgSpeed)
		assert.InDelta(t, 57.0/32*100, night.Efficiency, 1e-9)

		for i := 1; i < len(rows); i++ {
			assert.LessOrEqual(t, rows[i-1].Efficiency, rows[i].Efficiency)
		}
	})

	t.Run("zero timing rows are skipped and flagged", func(t *testing.T) {
		obs := []domain.Observation{
			observation(domain.MGRoad, 9, 0, 1500, 30, 0, 0),
			observation(domain.Hebbal, 9, 0, 900, 50, 50, 0),
		}

		rows, err := SignalEfficiency(obs)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidData)
		var dataErr *domain.DataError
		require.True(t, errors.As(err, &dataErr))
		assert.Equal(t, domain.MGRoad, dataErr.Location)
		assert.Equal(t, domain.Morning, dataErr.Period)

		require.Len(t, rows, 1)
		assert.Equal(t, domain.Hebbal, rows[0].Location)
	})

	t.Run("NaN speed never yields a NaN efficiency", func(t *testing.T) {
		obs := []domain.Observation{
			observation(domain.MGRoad, 9, 0, 1000, math.NaN(), 60, 0),
			observation(domain.Hebbal, 9, 0, 900, 50, 50, 0),
		}

		rows, err := SignalEfficiency(obs)

		assert.ErrorIs(t, err, domain.ErrInvalidData)
		require.Len(t, rows, 1)
		assert.Equal(t, domain.Hebbal, rows[0].Location)
		assert.False(t, math.IsNaN(rows[0].Efficiency))
	})
}

func TestPeakHours(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := PeakHours(nil)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})

	t.Run("keeps slots at or above the upper quartile", func(t *testing.T) {
		// slot means: 100, 200, 300, 400, 500 -> 75th percentile is 400
		obs := []domain.Observation{
			observation(domain.MGRoad, 3, 0, 100, 55, 30, 0),
			observation(domain.MGRoad, 12, 0, 200, 55, 30, 0),
			observation(domain.MGRoad, 18, 6, 300, 55, 30, 0),
			observation(domain.MGRoad, 9, 2, 350, 50, 30, 0),
			observation(domain.Hebbal, 9, 2, 450, 40, 30, 0),
			observation(domain.MGRoad, 8, 1, 500, 35, 30, 0),
		}

		peaks, err := PeakHours(obs)
		require.NoError(t, err)

		assert.Equal(t, []domain.PeakHour{
			{Hour: 8, DayOfWeek: 1, TrafficVolume: 500, AvgSpeed: 35},
			{Hour: 9, DayOfWeek: 2, TrafficVolume: 400, AvgSpeed: 45},
		}, peaks)
	})
}
