package analysis

import (
	"errors"
	"fmt"

	"github.com/smartcity/hotspots/internal/domain"
)

// Run executes the full batch analysis over observations. Rows that fail
// validation and signal groups with an undefined efficiency are left out and
// listed in Report.Warnings; any other failure aborts the run.
func Run(obs []domain.Observation, opts ClassifierOptions) (domain.Report, error) {
	if len(obs) == 0 {
		return domain.Report{}, fmt.Errorf("analysis: failed to run: %w", domain.ErrEmptyInput)
	}

	var warnings []string
	valid := make([]domain.Observation, 0, len(obs))
	for _, o := range obs {
		if err := o.Validate(); err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		valid = append(valid, o)
	}

	summaries, err := SummarizeLocations(valid)
	if err != nil {
		return domain.Report{}, err
	}

	classification, err := ClassifyHotspots(summaries, opts)
	if err != nil {
		return domain.Report{}, err
	}

	peaks, err := PeakHours(valid)
	if err != nil {
		return domain.Report{}, err
	}

	efficiency, err := SignalEfficiency(valid)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidData) {
			return domain.Report{}, err
		}
		warnings = append(warnings, flatten(err)...)
	}

	recs, err := GenerateRecommendations(classification.Hotspots, efficiency, peaks)
	if err != nil {
		return domain.Report{}, err
	}

	return domain.Report{
		ObservationCount: len(valid),
		Summaries:        summaries,
		Classification:   classification,
		PeakHours:        peaks,
		SignalEfficiency: efficiency,
		Recommendations:  recs,
		Plan:             BuildPlan(valid, classification.Hotspots, efficiency, peaks),
		Warnings:         warnings,
	}, nil
}

func flatten(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
