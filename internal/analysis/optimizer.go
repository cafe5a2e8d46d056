package analysis

import (
	"math"
	"sort"

	"github.com/smartcity/hotspots/internal/domain"
)

// OptimizeSignalTiming proposes a cycle length per location and period from its
// mean traffic volume: long cycles are trimmed, quiet periods get short ones.
func OptimizeSignalTiming(rows []domain.SignalEfficiencyRow) []domain.SignalTimingPlan {
	plans := make([]domain.SignalTimingPlan, 0, len(rows))
	for _, row := range rows {
		current := row.SignalTiming

		var optimized int
		switch {
		case row.TrafficVolume > 1500:
			optimized = min(120, int(current*0.9))
		case row.TrafficVolume > 1000:
			optimized = min(90, int(current*0.85))
		default:
			optimized = max(30, int(current*0.7))
		}

		plans = append(plans, domain.SignalTimingPlan{
			Location:                 row.Location,
			Period:                   row.Period,
			CurrentTiming:            current,
			OptimizedTiming:          optimized,
			ExpectedSpeedImprovement: math.Min(15, (current-float64(optimized))/3),
		})
	}
	return plans
}

// diversionCatalogue is a fixed table of alternatives; a routing graph would replace it
var diversionCatalogue = []domain.RouteDiversion{
	{
		Hotspot: domain.SilkBoardJunction,
		AlternativeRoutes: []string{
			"Hosur Road -> Sarjapur Road -> Outer Ring Road",
			"BTM Layout -> Bannerghatta Road -> JP Nagar",
		},
		EstimatedTimeSaving: "15-20 min",
	},
	{
		Hotspot: domain.ElectronicCity,
		AlternativeRoutes: []string{
			"Hosur Road -> Bommanahalli -> BTM Layout",
			"Nice Road -> Bannerghatta Road",
		},
		EstimatedTimeSaving: "10-15 min",
	},
	{
		Hotspot: domain.Whitefield,
		AlternativeRoutes: []string{
			"Old Madras Road -> KR Puram -> Hoodi",
			"ITPL Main Road -> Varthur Kodi -> Sarjapur Road",
		},
		EstimatedTimeSaving: "15-25 min",
	},
	{
		Hotspot: domain.Marathahalli,
		AlternativeRoutes: []string{
			"HAL Airport Road -> Wind Tunnel Road -> Suranjan Das Road",
			"Outer Ring Road -> Sarjapur Road -> Haralur Road",
		},
		EstimatedTimeSaving: "15-20 min",
	},
	{
		Hotspot: domain.Hebbal,
		AlternativeRoutes: []string{
			"Bellary Road -> Outer Ring Road -> Banaswadi",
			"Hennur Road -> Thanisandra Main Road",
		},
		EstimatedTimeSaving: "10-15 min",
	},
	{
		Hotspot: domain.MGRoad,
		AlternativeRoutes: []string{
			"Cubbon Road -> Infantry Road -> Commercial Street",
			"Residency Road -> Richmond Road -> Double Road",
		},
		EstimatedTimeSaving: "5-10 min",
	},
	{
		Hotspot: domain.Koramangala,
		AlternativeRoutes: []string{
			"Inner Ring Road -> Double Road -> Richmond Road",
			"Sarjapur Road -> Haralur Road -> HSR Layout",
		},
		EstimatedTimeSaving: "10-15 min",
	},
}

// SuggestRouteDiversions returns the catalogued alternatives for each hotspot
// that has any, in catalogue order.
func SuggestRouteDiversions(hotspots []domain.LocationSummary) []domain.RouteDiversion {
	wanted := make(map[domain.Location]bool, len(hotspots))
	for _, h := range hotspots {
		wanted[h.Location] = true
	}

	var plans []domain.RouteDiversion
	for _, d := range diversionCatalogue {
		if wanted[d.Hotspot] {
			d.AlternativeRoutes = append([]string(nil), d.AlternativeRoutes...)
			plans = append(plans, d)
		}
	}
	return plans
}

// OptimizePublicTransport ranks locations by mean weekday volume during the
// weekday peak hours and maps each onto a bus frequency band.
func OptimizePublicTransport(obs []domain.Observation, peaks []domain.PeakHour) []domain.TransportRecommendation {
	peakHours := make(map[int]bool)
	for _, p := range peaks {
		if domain.IsWeekday(p.DayOfWeek) {
			peakHours[p.Hour] = true
		}
	}

	sums := make(map[domain.Location]float64)
	counts := make(map[domain.Location]int)
	for _, o := range obs {
		if !domain.IsWeekday(o.DayOfWeek) || !peakHours[o.Hour] {
			continue
		}
		sums[o.Location] += float64(o.TrafficVolume)
		counts[o.Location]++
	}

	recs := make([]domain.TransportRecommendation, 0, len(sums))
	for loc, sum := range sums {
		volume := sum / float64(counts[loc])
		rec := domain.TransportRecommendation{
			Location:         loc,
			AvgTrafficVolume: volume,
			SpecialServices:  volume > 1200,
		}
		switch {
		case volume > 1000:
			rec.RecommendedFrequency, rec.Priority = "Every 5-10 minutes", "High"
		case volume > 700:
			rec.RecommendedFrequency, rec.Priority = "Every 10-15 minutes", "Medium"
		default:
			rec.RecommendedFrequency, rec.Priority = "Every 15-20 minutes", "Normal"
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].AvgTrafficVolume != recs[j].AvgTrafficVolume {
			return recs[i].AvgTrafficVolume > recs[j].AvgTrafficVolume
		}
		return recs[i].Location < recs[j].Location
	})
	return recs
}

// GeneralRecommendations returns the city-wide measures
func GeneralRecommendations() []domain.GeneralRecommendation {
	return []domain.GeneralRecommendation{
		{
			Category:                "Infrastructure",
			Recommendation:          "Implement smart traffic lights at top 5 congested junctions",
			ExpectedImpact:          "Reduce wait time by 20-30%",
			ImplementationTimeframe: "Short-term (3-6 months)",
		},
		{
			Category:                "Policy",
			Recommendation:          "Implement odd-even vehicle scheme during peak hours",
			ExpectedImpact:          "Reduce traffic volume by 15-20%",
			ImplementationTimeframe: "Medium-term (6-12 months)",
		},
		{
			Category:                "Public Transport",
			Recommendation:          "Increase frequency of metro and bus services during peak hours",
			ExpectedImpact:          "Shift 10-15% of private vehicle users to public transport",
			ImplementationTimeframe: "Short-term (1-3 months)",
		},
		{
			Category:                "Technology",
			Recommendation:          "Deploy traffic monitoring cameras with AI analytics",
			ExpectedImpact:          "Improve incident detection time by 60-70%",
			ImplementationTimeframe: "Medium-term (6-9 months)",
		},
		{
			Category:                "Urban Planning",
			Recommendation:          "Develop satellite business districts to decentralize traffic",
			ExpectedImpact:          "Long-term reduction in commute distances by 20-25%",
			ImplementationTimeframe: "Long-term (2-3 years)",
		},
	}
}

// BuildPlan assembles the optimizer outputs
func BuildPlan(
	obs []domain.Observation,
	hotspots []domain.LocationSummary,
	efficiency []domain.SignalEfficiencyRow,
	peaks []domain.PeakHour,
) domain.TrafficPlan {
	return domain.TrafficPlan{
		SignalOptimizations:      OptimizeSignalTiming(efficiency),
		RouteDiversions:          SuggestRouteDiversions(hotspots),
		TransportRecommendations: OptimizePublicTransport(obs, peaks),
		GeneralRecommendations:   GeneralRecommendations(),
	}
}
