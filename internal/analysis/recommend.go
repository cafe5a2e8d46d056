package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/pkg/utils"
)

const (
	// CommonPeakHourCount is how many recurring weekday peak hours are named
	CommonPeakHourCount = 3
	// InefficientSignalCount is how many of the worst signal rows get an advisory
	InefficientSignalCount = 5

	allJunctions = "All major junctions"

	issueAccidents      = "High accident rate"
	issueSignalTiming   = "Inefficient signal timing"
	adviceAccidents     = "Implement dedicated traffic police during peak hours and improve road markings"
	adviceSignalTiming  = "Adjust signal timing based on real-time traffic volume"
	advicePeakHours     = "Implement staggered office hours and encourage public transport usage"
	adviceAdaptiveLight = "Implement adaptive signal control based on traffic volume"
)

// GenerateRecommendations turns the hotspot set, the signal efficiency table and
// the peak hour summary into advisories: hotspot entries first, then one
// peak-hour entry, then one entry per least efficient signal row.
func GenerateRecommendations(
	hotspots []domain.LocationSummary,
	efficiency []domain.SignalEfficiencyRow,
	peaks []domain.PeakHour,
) ([]domain.Recommendation, error) {
	if len(hotspots) == 0 {
		return nil, fmt.Errorf("analysis: failed to generate recommendations: no hotspots: %w", domain.ErrEmptyInput)
	}
	if len(efficiency) == 0 {
		return nil, fmt.Errorf("analysis: failed to generate recommendations: no signal efficiency rows: %w", domain.ErrEmptyInput)
	}

	values := make([]float64, len(efficiency))
	minByLocation := make(map[domain.Location]float64)
	for i, row := range efficiency {
		values[i] = row.Efficiency
		if cur, ok := minByLocation[row.Location]; !ok || row.Efficiency < cur {
			minByLocation[row.Location] = row.Efficiency
		}
	}
	median := utils.Median(values)

	var recs []domain.Recommendation
	for _, h := range hotspots {
		if h.Accidents > 0 {
			recs = append(recs, domain.Recommendation{
				Location:       string(h.Location),
				Issue:          issueAccidents,
				Recommendation: adviceAccidents,
			})
		}
		if low, ok := minByLocation[h.Location]; ok && low < median {
			recs = append(recs, domain.Recommendation{
				Location:       string(h.Location),
				Issue:          issueSignalTiming,
				Recommendation: adviceSignalTiming,
			})
		}
	}

	// emitted even without weekday peaks, naming an empty hour list
	recs = append(recs, domain.Recommendation{
		Location:       allJunctions,
		Issue:          fmt.Sprintf("Peak congestion during hours %s", formatHours(CommonPeakHours(peaks, CommonPeakHourCount))),
		Recommendation: advicePeakHours,
	})

	worst := append([]domain.SignalEfficiencyRow(nil), efficiency...)
	sortByEfficiency(worst)
	if len(worst) > InefficientSignalCount {
		worst = worst[:InefficientSignalCount]
	}
	for _, row := range worst {
		recs = append(recs, domain.Recommendation{
			Location:       string(row.Location),
			Issue:          fmt.Sprintf("Inefficient signal during %s", row.Period),
			Recommendation: adviceAdaptiveLight,
		})
	}

	return recs, nil
}

// CommonPeakHours returns up to n hours that recur most often among weekday
// peaks. Equal counts are ordered by ascending hour.
func CommonPeakHours(peaks []domain.PeakHour, n int) []int {
	counts := make(map[int]int)
	for _, p := range peaks {
		if domain.IsWeekday(p.DayOfWeek) {
			counts[p.Hour]++
		}
	}

	hours := make([]int, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}

func formatHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
