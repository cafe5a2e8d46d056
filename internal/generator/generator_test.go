package generator

import (
	"testing"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("one reading per location per hour", func(t *testing.T) {
		obs := Generate(cfg)

		require.Len(t, obs, cfg.Days*24*len(domain.AllLocations()))
		assert.Equal(t, cfg.Start, obs[0].Timestamp)
		assert.Equal(t, domain.SilkBoardJunction, obs[0].Location)
		assert.Equal(t, 3, obs[0].DayOfWeek, "2024-02-01 is a Thursday")
	})

	t.Run("readings are within range", func(t *testing.T) {
		for _, o := range Generate(cfg) {
			require.NoError(t, o.Validate())
			assert.GreaterOrEqual(t, o.AvgSpeed, 5.0)
			assert.GreaterOrEqual(t, o.SignalTiming, 30)
			assert.LessOrEqual(t, o.SignalTiming, 120)
			assert.GreaterOrEqual(t, o.RoadCondition, 3)
			assert.LessOrEqual(t, o.RoadCondition, 9)
			assert.Equal(t, o.Timestamp.Hour(), o.Hour)
		}
	})

	t.Run("same seed same data", func(t *testing.T) {
		assert.Equal(t, Generate(cfg), Generate(cfg))

		other := cfg
		other.Seed = 7
		assert.NotEqual(t, Generate(cfg), Generate(other))
	})

	t.Run("rush hour is busier than late night", func(t *testing.T) {
		var rush, night, rushN, nightN float64
		for _, o := range Generate(cfg) {
			if !domain.IsWeekday(o.DayOfWeek) {
				continue
			}
			switch {
			case o.Hour >= 8 && o.Hour <= 10:
				rush += float64(o.TrafficVolume)
				rushN++
			case o.Hour <= 5:
				night += float64(o.TrafficVolume)
				nightN++
			}
		}
		assert.Greater(t, rush/rushN, night/nightN)
	})

	t.Run("zero days", func(t *testing.T) {
		cfg := cfg
		cfg.Days = 0
		assert.Empty(t, Generate(cfg))
	})
}
