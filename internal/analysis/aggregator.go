package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/pkg/utils"
)

// PeakQuantile is the share of (hour, day) pairs below the peak threshold
const PeakQuantile = 0.75

type accumulator struct {
	count     int
	volume    float64
	speed     float64
	timing    float64
	accidents int
}

func (a *accumulator) add(o domain.Observation) {
	a.count++
	a.volume += float64(o.TrafficVolume)
	a.speed += o.AvgSpeed
	a.timing += float64(o.SignalTiming)
	a.accidents += o.Accidents
}

func (a *accumulator) meanVolume() float64 { return a.volume / float64(a.count) }
func (a *accumulator) meanSpeed() float64  { return a.speed / float64(a.count) }
func (a *accumulator) meanTiming() float64 { return a.timing / float64(a.count) }

// SummarizeLocations reduces observations to one summary per distinct location,
// sorted by location name.
func SummarizeLocations(obs []domain.Observation) ([]domain.LocationSummary, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("analysis: failed to summarize locations: %w", domain.ErrEmptyInput)
	}

	groups := make(map[domain.Location]*accumulator)
	for _, o := range obs {
		acc, ok := groups[o.Location]
		if !ok {
			acc = &accumulator{}
			groups[o.Location] = acc
		}
		acc.add(o)
	}

	summaries := make([]domain.LocationSummary, 0, len(groups))
	for loc, acc := range groups {
		summaries = append(summaries, domain.LocationSummary{
			Location:      loc,
			TrafficVolume: acc.meanVolume(),
			AvgSpeed:      acc.meanSpeed(),
			Accidents:     acc.accidents,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Location < summaries[j].Location
	})

	return summaries, nil
}

// Efficiency is avgSpeed / signalTiming * 100. A zero timing or a non-finite
// result yields a DataError.
func Efficiency(avgSpeed, signalTiming float64) (float64, error) {
	if signalTiming == 0 {
		return 0, &domain.DataError{Field: "signal_timing", Reason: "mean is zero, efficiency undefined"}
	}
	eff := avgSpeed / signalTiming * 100
	if math.IsNaN(eff) || math.IsInf(eff, 0) {
		return 0, &domain.DataError{Field: "avg_speed", Reason: fmt.Sprintf("efficiency is not finite for speed %v and timing %v", avgSpeed, signalTiming)}
	}
	return eff, nil
}

type signalKey struct {
	location domain.Location
	period   domain.Period
}

// SignalEfficiency groups observations by location and period and computes the
// efficiency of each group, sorted ascending by efficiency. Groups whose mean
// signal timing is zero are left out and reported through the returned error;
// the remaining rows are still returned.
func SignalEfficiency(obs []domain.Observation) ([]domain.SignalEfficiencyRow, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("analysis: failed to compute signal efficiency: %w", domain.ErrEmptyInput)
	}

	groups := make(map[signalKey]*accumulator)
	for _, o := range obs {
		key := signalKey{location: o.Location, period: o.Period()}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
		}
		acc.add(o)
	}

	var (
		rows    = make([]domain.SignalEfficiencyRow, 0, len(groups))
		skipped []error
	)
	for key, acc := range groups {
		eff, err := Efficiency(acc.meanSpeed(), acc.meanTiming())
		if err != nil {
			var dataErr *domain.DataError
			if errors.As(err, &dataErr) {
				dataErr.Location = key.location
				dataErr.Period = key.period
			}
			skipped = append(skipped, err)
			continue
		}
		rows = append(rows, domain.SignalEfficiencyRow{
			Location:      key.location,
			Period:        key.period,
			TrafficVolume: acc.meanVolume(),
			SignalTiming:  acc.meanTiming(),
			AvgSpeed:      acc.meanSpeed(),
			Efficiency:    eff,
		})
	}
	sortByEfficiency(rows)

	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Error() < skipped[j].Error() })
	return rows, errors.Join(skipped...)
}

func sortByEfficiency(rows []domain.SignalEfficiencyRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Efficiency != b.Efficiency {
			return a.Efficiency < b.Efficiency
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		return a.Period.Index() < b.Period.Index()
	})
}

type slotKey struct {
	hour      int
	dayOfWeek int
}

// PeakHours returns the (hour, day of week) pairs whose mean traffic volume is at
// or above the PeakQuantile of all pair means, ordered by hour then day.
func PeakHours(obs []domain.Observation) ([]domain.PeakHour, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("analysis: failed to compute peak hours: %w", domain.ErrEmptyInput)
	}

	groups := make(map[slotKey]*accumulator)
	for _, o := range obs {
		key := slotKey{hour: o.Hour, dayOfWeek: o.DayOfWeek}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
		}
		acc.add(o)
	}

	slots := make([]domain.PeakHour, 0, len(groups))
	volumes := make([]float64, 0, len(groups))
	for key, acc := range groups {
		slots = append(slots, domain.PeakHour{
			Hour:          key.hour,
			DayOfWeek:     key.dayOfWeek,
			TrafficVolume: acc.meanVolume(),
			AvgSpeed:      acc.meanSpeed(),
		})
		volumes = append(volumes, acc.meanVolume())
	}

	threshold := utils.Quantile(volumes, PeakQuantile)
	peaks := make([]domain.PeakHour, 0, len(slots)/4+1)
	for _, s := range slots {
		if s.TrafficVolume >= threshold {
			peaks = append(peaks, s)
		}
	}
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].Hour != peaks[j].Hour {
			return peaks[i].Hour < peaks[j].Hour
		}
		return peaks[i].DayOfWeek < peaks[j].DayOfWeek
	})

	return peaks, nil
}
