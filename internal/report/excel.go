package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/internal/logger"
	"github.com/smartcity/hotspots/pkg/utils"
	"github.com/xuri/excelize/v2"
)

const (
	sheetHotspots        = "Hotspots"
	sheetSummary         = "Locations"
	sheetPeakHours       = "Peak Hours"
	sheetSignals         = "Signal Efficiency"
	sheetTiming          = "Signal Timing"
	sheetRecommendations = "Recommendations"
	sheetPlan            = "Plan"
)

// ExcelExporter renders an analysis report as an .xlsx workbook with charts
type ExcelExporter struct {
	logger logger.Logger
}

func NewExcelExporter(log logger.Logger) *ExcelExporter {
	return &ExcelExporter{logger: log.WithField("component", "excel_exporter")}
}

// Export returns the workbook bytes
func (e *ExcelExporter) Export(r domain.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	err := f.SetDocProps(&excelize.DocProperties{
		Title:       "Traffic Hotspot Report",
		Subject:     "Traffic Hotspot Analysis",
		Creator:     "Traffic Hotspot Service",
		Description: fmt.Sprintf("Analysis %s over %d observations", r.ID, r.ObservationCount),
		Created:     r.GeneratedAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("excel: failed to set document properties: %w", err)
	}

	steps := []struct {
		name  string
		write func(*excelize.File, domain.Report) error
	}{
		{sheetHotspots, e.writeHotspots},
		{sheetSummary, e.writeSummaries},
		{sheetPeakHours, e.writePeakHours},
		{sheetSignals, e.writeSignals},
		{sheetTiming, e.writeTiming},
		{sheetRecommendations, e.writeRecommendations},
		{sheetPlan, e.writePlan},
	}
	for _, step := range steps {
		if _, err := f.NewSheet(step.name); err != nil {
			return nil, fmt.Errorf("excel: failed to create sheet %q: %w", step.name, err)
		}
		if err := step.write(f, r); err != nil {
			return nil, fmt.Errorf("excel: failed to write sheet %q: %w", step.name, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel: failed to remove default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(sheetHotspots); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: failed to write workbook to buffer: %w", err)
	}

	e.logger.Infof("Exported report %s with %d hotspots", r.ID, len(r.Classification.Hotspots))
	return buf.Bytes(), nil
}

func (e *ExcelExporter) writeHotspots(f *excelize.File, r domain.Report) error {
	rows := [][]interface{}{{"Location", "Avg Traffic Volume (vehicles/hour)", "Avg Speed (km/h)", "Accidents"}}
	for _, h := range r.Classification.Hotspots {
		rows = append(rows, []interface{}{string(h.Location), round1(h.TrafficVolume), round1(h.AvgSpeed), h.Accidents})
	}
	if err := writeRows(f, sheetHotspots, rows); err != nil {
		return err
	}
	if len(r.Classification.Hotspots) == 0 {
		return nil
	}

	last := len(r.Classification.Hotspots) + 1
	return f.AddChart(sheetHotspots, "F2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       ref(sheetHotspots, "$B$1"),
				Categories: ref(sheetHotspots, fmt.Sprintf("$A$2:$A$%d", last)),
				Values:     ref(sheetHotspots, fmt.Sprintf("$B$2:$B$%d", last)),
			},
		},
		Title:  []excelize.RichTextRun{{Text: "Traffic Hotspots"}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func (e *ExcelExporter) writeSummaries(f *excelize.File, r domain.Report) error {
	rows := [][]interface{}{{"Location", "Avg Traffic Volume", "Avg Speed (km/h)", "Accidents", "Cluster", "Hotspot"}}
	for _, s := range r.Summaries {
		cluster := r.Classification.Assignments[s.Location]
		rows = append(rows, []interface{}{
			string(s.Location), round1(s.TrafficVolume), round1(s.AvgSpeed), s.Accidents,
			cluster, yesNo(cluster == r.Classification.Congested),
		})
	}
	return writeRows(f, sheetSummary, rows)
}

func (e *ExcelExporter) writePeakHours(f *excelize.File, r domain.Report) error {
	rows := [][]interface{}{{"Day", "Hour", "Avg Traffic Volume", "Avg Speed (km/h)"}}
	for _, p := range r.PeakHours {
		rows = append(rows, []interface{}{
			domain.DayNames[p.DayOfWeek], fmt.Sprintf("%02d:00", p.Hour), round1(p.TrafficVolume), round1(p.AvgSpeed),
		})
	}
	return writeRows(f, sheetPeakHours, rows)
}

func (e *ExcelExporter) writeSignals(f *excelize.File, r domain.Report) error {
	rows := [][]interface{}{{"Location", "Period", "Avg Traffic Volume", "Avg Signal Timing (s)", "Avg Speed (km/h)", "Efficiency"}}
	for _, s := range r.SignalEfficiency {
		rows = append(rows, []interface{}{
			string(s.Location), string(s.Period), round1(s.TrafficVolume), round1(s.SignalTiming), round1(s.AvgSpeed), round1(s.Efficiency),
		})
	}
	return writeRows(f, sheetSignals, rows)
}

func (e *ExcelExporter) writeTiming(f *excelize.File, r domain.Report) error {
	plans := r.Plan.SignalOptimizations
	rows := [][]interface{}{{"Signal", "Current Timing (s)", "Optimized Timing (s)", "Expected Speed Improvement (km/h)"}}
	for _, p := range plans {
		rows = append(rows, []interface{}{
			fmt.Sprintf("%s (%s)", p.Location, p.Period), round1(p.CurrentTiming), p.OptimizedTiming, round1(p.ExpectedSpeedImprovement),
		})
	}
	if err := writeRows(f, sheetTiming, rows); err != nil {
		return err
	}
	if len(plans) == 0 {
		return nil
	}

	// chart the worst five signals, which lead the table
	last := min(len(plans), 5) + 1
	categories := ref(sheetTiming, fmt.Sprintf("$A$2:$A$%d", last))
	return f.AddChart(sheetTiming, "F2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{Name: ref(sheetTiming, "$B$1"), Categories: categories, Values: ref(sheetTiming, fmt.Sprintf("$B$2:$B$%d", last))},
			{Name: ref(sheetTiming, "$C$1"), Categories: categories, Values: ref(sheetTiming, fmt.Sprintf("$C$2:$C$%d", last))},
		},
		Title: []excelize.RichTextRun{{Text: "Signal Timing Optimization"}},
	})
}

func (e *ExcelExporter) writeRecommendations(f *excelize.File, r domain.Report) error {
	rows := [][]interface{}{{"Location", "Issue", "Recommendation"}}
	for _, rec := range r.Recommendations {
		rows = append(rows, []interface{}{rec.Location, rec.Issue, rec.Recommendation})
	}
	return writeRows(f, sheetRecommendations, rows)
}

func (e *ExcelExporter) writePlan(f *excelize.File, r domain.Report) error {
	rows := [][]interface{}{{"Route Diversions"}, {"Hotspot", "Alternative Routes", "Estimated Time Saving"}}
	for _, d := range r.Plan.RouteDiversions {
		rows = append(rows, []interface{}{string(d.Hotspot), strings.Join(d.AlternativeRoutes, "; "), d.EstimatedTimeSaving})
	}

	rows = append(rows, nil, []interface{}{"Public Transport"}, []interface{}{"Location", "Avg Traffic Volume", "Frequency", "Priority", "Special Services"})
	for _, t := range r.Plan.TransportRecommendations {
		rows = append(rows, []interface{}{string(t.Location), round1(t.AvgTrafficVolume), t.RecommendedFrequency, t.Priority, yesNo(t.SpecialServices)})
	}

	rows = append(rows, nil, []interface{}{"General"}, []interface{}{"Category", "Recommendation", "Expected Impact", "Timeframe"})
	for _, g := range r.Plan.GeneralRecommendations {
		rows = append(rows, []interface{}{g.Category, g.Recommendation, g.ExpectedImpact, g.ImplementationTimeframe})
	}
	return writeRows(f, sheetPlan, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func ref(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", sheet, cells)
}

func round1(v float64) float64 {
	return utils.RoundTo(v, 1)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
