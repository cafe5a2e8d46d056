package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/smartcity/hotspots/internal/domain"
)

const (
	dashboardWidth = 80
	dashboardRows  = 5
	peakRows       = 3
)

// cannedAlerts are static placeholders until a live incident feed exists
var cannedAlerts = []string{
	"HEAVY CONGESTION ALERT: Silk Board Junction - Traffic moving at 5-10 km/h",
	"ACCIDENT REPORTED: Near Hebbal Flyover - Right lane blocked",
	"METRO DISRUPTION: Green Line running with 15 min delays",
	"ROAD CLOSURE: MG Road closed for repairs between Trinity Circle and Anil Kumble Circle",
}

// WriteDashboard prints the textual traffic management dashboard
func WriteDashboard(w io.Writer, r domain.Report) error {
	d := &dashboard{w: w}

	d.banner("BENGALURU TRAFFIC MANAGEMENT DASHBOARD")

	d.section("1. TRAFFIC HOTSPOTS")
	for _, h := range r.Classification.Hotspots {
		d.printf("Location: %s\n", h.Location)
		d.printf("  • Average Traffic Volume: %.1f vehicles/hour\n", h.TrafficVolume)
		d.printf("  • Average Speed: %.1f km/h\n", h.AvgSpeed)
		d.printf("  • Accident Count: %d\n\n", h.Accidents)
	}

	d.section("2. PEAK HOUR ANALYSIS")
	var weekday, weekend []domain.PeakHour
	for _, p := range r.PeakHours {
		if domain.IsWeekday(p.DayOfWeek) {
			weekday = append(weekday, p)
		} else {
			weekend = append(weekend, p)
		}
	}
	d.printf("Weekday Peak Hours:\n")
	d.peaks(weekday)
	d.printf("\nWeekend Peak Hours:\n")
	d.peaks(weekend)

	d.section("3. SIGNAL TIMING OPTIMIZATION")
	for _, s := range head(r.Plan.SignalOptimizations, dashboardRows) {
		d.printf("Location: %s (%s)\n", s.Location, s.Period)
		d.printf("  • Current Signal Timing: %.1f seconds\n", s.CurrentTiming)
		d.printf("  • Optimized Timing: %d seconds\n", s.OptimizedTiming)
		d.printf("  • Expected Speed Improvement: %.1f km/h\n\n", s.ExpectedSpeedImprovement)
	}

	d.section("4. RECOMMENDED ROUTE DIVERSIONS")
	for _, route := range r.Plan.RouteDiversions {
		d.printf("Hotspot: %s\n", route.Hotspot)
		d.printf("  Alternative Routes:\n")
		for _, alt := range route.AlternativeRoutes {
			d.printf("    ◦ %s\n", alt)
		}
		d.printf("  Estimated Time Saving: %s\n\n", route.EstimatedTimeSaving)
	}

	d.section("5. PUBLIC TRANSPORT RECOMMENDATIONS")
	for _, rec := range head(r.Plan.TransportRecommendations, dashboardRows) {
		d.printf("Location: %s (Priority: %s)\n", rec.Location, rec.Priority)
		d.printf("  • Recommended Bus Frequency: %s\n", rec.RecommendedFrequency)
		if rec.SpecialServices {
			d.printf("  • Special Express Services Recommended\n")
		}
		d.printf("\n")
	}

	d.section("6. RECOMMENDATIONS")
	for _, rec := range r.Recommendations {
		d.printf("%s: %s\n", rec.Location, rec.Issue)
		d.printf("  → %s\n", rec.Recommendation)
	}

	d.printf("\n")
	d.banner("REAL-TIME TRAFFIC ALERTS")
	for _, alert := range cannedAlerts {
		d.printf("• %s\n", alert)
	}
	d.printf("\n%s\n", strings.Repeat("=", dashboardWidth))

	return d.err
}

// WriteSummary prints the closing summary line block
func WriteSummary(w io.Writer, r domain.Report) error {
	d := &dashboard{w: w}
	d.printf("Recommendations Summary:\n")
	d.printf("• Signal timing optimizations for %d locations\n", len(r.Plan.SignalOptimizations))
	d.printf("• Alternative routes for %d traffic hotspots\n", len(r.Plan.RouteDiversions))
	d.printf("• Public transport enhancements for %d areas\n", len(r.Plan.TransportRecommendations))
	d.printf("• %d general infrastructure and policy recommendations\n", len(r.Plan.GeneralRecommendations))
	return d.err
}

// dashboard remembers the first write error so the layout code stays linear
type dashboard struct {
	w   io.Writer
	err error
}

func (d *dashboard) printf(format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dashboard) banner(title string) {
	rule := strings.Repeat("=", dashboardWidth)
	pad := (dashboardWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	d.printf("\n%s\n%s%s\n%s\n", rule, strings.Repeat(" ", pad), title, rule)
}

func (d *dashboard) section(title string) {
	d.printf("\n%s\n%s\n", title, strings.Repeat("-", dashboardWidth))
}

func (d *dashboard) peaks(peaks []domain.PeakHour) {
	for _, p := range head(peaks, peakRows) {
		d.printf("  • %s at %02d:00 - Traffic Volume: %.1f\n", domain.DayNames[p.DayOfWeek], p.Hour, p.TrafficVolume)
	}
}

func head[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
