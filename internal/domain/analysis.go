package domain

import "time"

// LocationSummary holds per-location aggregates over the observation window
type LocationSummary struct {
	Location      Location `json:"location"`
	TrafficVolume float64  `json:"traffic_volume"`
	AvgSpeed      float64  `json:"avg_speed_kmh"`
	Accidents     int      `json:"accidents"`
}

// SignalEfficiencyRow aggregates one location over one period of the day
type SignalEfficiencyRow struct {
	Location      Location `json:"location"`
	Period        Period   `json:"period"`
	TrafficVolume float64  `json:"traffic_volume"`
	SignalTiming  float64  `json:"signal_timing_s"`
	AvgSpeed      float64  `json:"avg_speed_kmh"`
	Efficiency    float64  `json:"signal_efficiency"`
}

// PeakHour is an (hour, day of week) pair whose mean volume reached the peak threshold
type PeakHour struct {
	Hour          int     `json:"hour"`
	DayOfWeek     int     `json:"day_of_week"`
	TrafficVolume float64 `json:"traffic_volume"`
	AvgSpeed      float64 `json:"avg_speed_kmh"`
}

// Cluster describes one k-means partition of the location summaries
type Cluster struct {
	Index         int        `json:"index"`
	Members       []Location `json:"members"`
	TrafficVolume float64    `json:"mean_traffic_volume"`
	AvgSpeed      float64    `json:"mean_avg_speed_kmh"`
}

// Classification is the outcome of hotspot clustering
type Classification struct {
	Assignments map[Location]int  `json:"assignments"`
	Clusters    []Cluster         `json:"clusters"`
	Congested   int               `json:"congested_cluster"`
	Hotspots    []LocationSummary `json:"hotspots"`
	Iterations  int               `json:"iterations"`
}

// Recommendation is a rule-based advisory
type Recommendation struct {
	Location       string `json:"location"`
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
}

// SignalTimingPlan proposes a new cycle length for one location and period
type SignalTimingPlan struct {
	Location                 Location `json:"location"`
	Period                   Period   `json:"period"`
	CurrentTiming            float64  `json:"current_timing_s"`
	OptimizedTiming          int      `json:"optimized_timing_s"`
	ExpectedSpeedImprovement float64  `json:"expected_speed_improvement_kmh"`
}

// RouteDiversion lists alternatives around a hotspot
type RouteDiversion struct {
	Hotspot             Location `json:"hotspot"`
	AlternativeRoutes   []string `json:"alternative_routes"`
	EstimatedTimeSaving string   `json:"estimated_time_saving"`
}

// TransportRecommendation suggests bus frequency for a location
type TransportRecommendation struct {
	Location             Location `json:"location"`
	AvgTrafficVolume     float64  `json:"avg_traffic_volume"`
	RecommendedFrequency string   `json:"recommended_frequency"`
	Priority             string   `json:"priority"`
	SpecialServices      bool     `json:"special_services"`
}

// GeneralRecommendation is a city-wide policy or infrastructure measure
type GeneralRecommendation struct {
	Category                string `json:"category"`
	Recommendation          string `json:"recommendation"`
	ExpectedImpact          string `json:"expected_impact"`
	ImplementationTimeframe string `json:"implementation_timeframe"`
}

// TrafficPlan bundles the optimizer outputs
type TrafficPlan struct {
	SignalOptimizations      []SignalTimingPlan        `json:"signal_optimizations"`
	RouteDiversions          []RouteDiversion          `json:"route_diversions"`
	TransportRecommendations []TransportRecommendation `json:"transport_recommendations"`
	GeneralRecommendations   []GeneralRecommendation   `json:"general_recommendations"`
}

// Report is a complete analysis snapshot handed to the presentation layer
type Report struct {
	ID               string                `json:"id"`
	GeneratedAt      time.Time             `json:"generated_at"`
	From             time.Time             `json:"from"`
	To               time.Time             `json:"to"`
	ObservationCount int                   `json:"observation_count"`
	Summaries        []LocationSummary     `json:"summaries"`
	Classification   Classification        `json:"classification"`
	PeakHours        []PeakHour            `json:"peak_hours"`
	SignalEfficiency []SignalEfficiencyRow `json:"signal_efficiency"`
	Recommendations  []Recommendation      `json:"recommendations"`
	Plan             TrafficPlan           `json:"plan"`
	Warnings         []string              `json:"warnings,omitempty"`
}
