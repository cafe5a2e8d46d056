package analysis

import (
	"testing"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signalRow(loc domain.Location, period domain.Period, eff float64) domain.SignalEfficiencyRow {
	return domain.SignalEfficiencyRow{Location: loc, Period: period, AvgSpeed: eff, SignalTiming: 100, Efficiency: eff}
}

func TestGenerateRecommendations(t *testing.T) {
	efficiency := []domain.SignalEfficiencyRow{
		signalRow(domain.SilkBoardJunction, domain.Morning, 30),
		signalRow(domain.SilkBoardJunction, domain.Night, 150),
		signalRow(domain.MGRoad, domain.Evening, 40),
		signalRow(domain.MGRoad, domain.Night, 160),
		signalRow(domain.Hebbal, domain.Morning, 90),
		signalRow(domain.Hebbal, domain.Night, 170),
		signalRow(domain.Jayanagar, domain.Afternoon, 100),
	}
	peaks := []domain.PeakHour{
		{Hour: 9, DayOfWeek: 0}, {Hour: 9, DayOfWeek: 1}, {Hour: 9, DayOfWeek: 2},
		{Hour: 18, DayOfWeek: 0}, {Hour: 18, DayOfWeek: 1},
		{Hour: 8, DayOfWeek: 3}, {Hour: 19, DayOfWeek: 4},
		{Hour: 14, DayOfWeek: 5}, {Hour: 14, DayOfWeek: 6}, {Hour: 14, DayOfWeek: 5},
	}

	t.Run("hotspot, peak and signal advisories in order", func(t *testing.T) {
		hotspots := []domain.LocationSummary{
			{Location: domain.MGRoad, TrafficVolume: 1100, AvgSpeed: 50, Accidents: 3},
			{Location: domain.Hebbal, TrafficVolume: 1000, AvgSpeed: 52, Accidents: 0},
		}

		recs, err := GenerateRecommendations(hotspots, efficiency, peaks)
		require.NoError(t, err)

		// median efficiency is 100: MG Road (min 40) is below it, Hebbal (min 90) too
		expected := []domain.Recommendation{
			{Location: "MG Road", Issue: "High accident rate", Recommendation: adviceAccidents},
			{Location: "MG Road", Issue: "Inefficient signal timing", Recommendation: adviceSignalTiming},
			{Location: "Hebbal", Issue: "Inefficient signal timing", Recommendation: adviceSignalTiming},
			{Location: "All major junctions", Issue: "Peak congestion during hours [9, 18, 8]", Recommendation: advicePeakHours},
			{Location: "Silk Board Junction", Issue: "Inefficient signal during Morning", Recommendation: adviceAdaptiveLight},
			{Location: "MG Road", Issue: "Inefficient signal during Evening", Recommendation: adviceAdaptiveLight},
			{Location: "Hebbal", Issue: "Inefficient signal during Morning", Recommendation: adviceAdaptiveLight},
			{Location: "Jayanagar", Issue: "Inefficient signal during Afternoon", Recommendation: adviceAdaptiveLight},
			{Location: "Silk Board Junction", Issue: "Inefficient signal during Night", Recommendation: adviceAdaptiveLight},
		}
		assert.Equal(t, expected, recs)
	})

	t.Run("no advisory for a hotspot at or above the median", func(t *testing.T) {
		hotspots := []domain.LocationSummary{{Location: domain.Jayanagar, TrafficVolume: 900, AvgSpeed: 55}}

		recs, err := GenerateRecommendations(hotspots, efficiency, peaks)
		require.NoError(t, err)

		require.Len(t, recs, 1+InefficientSignalCount)
		assert.Equal(t, "All major junctions", recs[0].Location)
		for _, r := range recs[1:] {
			assert.Contains(t, r.Issue, "Inefficient signal during")
		}
	})

	t.Run("peak advisory is emitted without weekday peaks", func(t *testing.T) {
		hotspots := []domain.LocationSummary{{Location: domain.Jayanagar, TrafficVolume: 900, AvgSpeed: 55}}
		weekendOnly := []domain.PeakHour{{Hour: 14, DayOfWeek: 5}, {Hour: 15, DayOfWeek: 6}}

		recs, err := GenerateRecommendations(hotspots, efficiency, weekendOnly)
		require.NoError(t, err)

		require.Len(t, recs, 1+InefficientSignalCount)
		assert.Equal(t, domain.Recommendation{
			Location:       "All major junctions",
			Issue:          "Peak congestion during hours []",
			Recommendation: advicePeakHours,
		}, recs[0])
	})

	t.Run("rejects empty hotspots", func(t *testing.T) {
		_, err := GenerateRecommendations(nil, efficiency, peaks)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})

	t.Run("rejects empty efficiency table", func(t *testing.T) {
		hotspots := []domain.LocationSummary{{Location: domain.MGRoad}}
		_, err := GenerateRecommendations(hotspots, nil, peaks)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})
}

func TestCommonPeakHours(t *testing.T) {
	peaks := []domain.PeakHour{
		{Hour: 19, DayOfWeek: 0}, {Hour: 17, DayOfWeek: 0},
		{Hour: 19, DayOfWeek: 1}, {Hour: 17, DayOfWeek: 1},
		{Hour: 10, DayOfWeek: 2},
		{Hour: 12, DayOfWeek: 6}, {Hour: 12, DayOfWeek: 5}, {Hour: 12, DayOfWeek: 6},
	}

	assert.Equal(t, []int{17, 19, 10}, CommonPeakHours(peaks, 3))
	assert.Equal(t, []int{17}, CommonPeakHours(peaks, 1))
	assert.Empty(t, CommonPeakHours(nil, 3))
}
