package tabular

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"defectwatch/internal/core/pipeline"
	"defectwatch/internal/core/weekly"
	perr "defectwatch/internal/platform/errors"
)

// Output file names under the sink directory
const (
	DerivedFile   = "derived_measures.csv"
	IndicatorFile = "indicators.csv"
	ForecastFile  = "forecast_and_plan.json"
)

// Sink persists the three output tables of a pipeline run to a directory
type Sink struct {
	Dir string
}

// Persist writes the derived table, the indicator table, and the forecast
// plus resource plan. The directory is created if missing
func (s Sink) Persist(b pipeline.Bundle) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create output dir %s", s.Dir)
	}
	if err := s.writeDerived(b); err != nil {
		return err
	}
	if err := s.writeIndicators(b); err != nil {
		return err
	}
	return s.writeForecastPlan(b)
}

func (s Sink) writeDerived(b pipeline.Bundle) error {
	rows := [][]string{{
		"week_start",
		"defects_inflow_total",
		"defects_outflow_total",
		"severity_critical_in",
		"severity_high_in",
		"severity_medium_in",
		"severity_low_in",
		"avg_resolution_time_hours",
		"backlog_total",
		"net_flow",
		"severity_ratio_critical",
		"severity_ratio_high",
		"severity_ratio_medium",
		"severity_ratio_low",
		"resolution_efficiency",
		"rolling_backlog_delta",
		"severity_weighted_inflow",
		"severe_inflow",
	}}
	for _, d := range b.Derived {
		rows = append(rows, []string{
			d.WeekStart.Format(weekLayout),
			strconv.Itoa(d.InflowTotal),
			strconv.Itoa(d.OutflowTotal),
			strconv.Itoa(d.SeverityCriticalIn),
			strconv.Itoa(d.SeverityHighIn),
			strconv.Itoa(d.SeverityMediumIn),
			strconv.Itoa(d.SeverityLowIn),
			formatFloat(d.AvgResolutionHours),
			strconv.Itoa(d.BacklogTotal),
			strconv.Itoa(d.NetFlow),
			formatFloat(d.SeverityRatioCritical),
			formatFloat(d.SeverityRatioHigh),
			formatFloat(d.SeverityRatioMedium),
			formatFloat(d.SeverityRatioLow),
			formatFloat(d.ResolutionEfficiency),
			strconv.Itoa(d.RollingBacklogDelta),
			formatFloat(d.SeverityWeightedInflow),
			strconv.Itoa(d.SevereInflow),
		})
	}
	return s.writeCSV(DerivedFile, rows)
}

func (s Sink) writeIndicators(b pipeline.Bundle) error {
	rows := [][]string{{
		"week_start",
		"is_problematic",
		"consecutive_overflow_weeks",
		"problem_flags",
		"health_status",
	}}
	for _, ind := range b.Indicators {
		rows = append(rows, []string{
			ind.WeekStart.Format(weekLayout),
			strconv.FormatBool(ind.IsProblematic),
			strconv.Itoa(ind.ConsecutiveOverflowWeeks),
			strings.Join(ind.Flags, ","),
			string(ind.Health),
		})
	}
	return s.writeCSV(IndicatorFile, rows)
}

func (s Sink) writeCSV(name string, rows [][]string) error {
	return writeCSVFile(filepath.Join(s.Dir, name), rows)
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "write %s", path)
	}
	w.Flush()
	return perr.WrapIf(w.Error(), perr.ErrorCodeIO, "flush "+path)
}

// WriteRecords writes weekly base measures to path in the base_measures.csv
// column order, the same shape ReadRecords accepts
func WriteRecords(path string, recs []weekly.WeeklyRecord) error {
	rows := make([][]string, 0, len(recs)+1)
	rows = append(rows, baseColumns)
	for _, r := range recs {
		rows = append(rows, []string{
			r.WeekStart.Format(weekLayout),
			strconv.Itoa(r.InflowTotal),
			strconv.Itoa(r.OutflowTotal),
			strconv.Itoa(r.SeverityCriticalIn),
			strconv.Itoa(r.SeverityHighIn),
			strconv.Itoa(r.SeverityMediumIn),
			strconv.Itoa(r.SeverityLowIn),
			formatFloat(r.AvgResolutionHours),
			strconv.Itoa(r.BacklogTotal),
		})
	}
	return writeCSVFile(path, rows)
}

// forecastPlan is the wire shape of forecast_and_plan.json
type forecastPlan struct {
	RunID        string       `json:"run_id"`
	HorizonWeeks int          `json:"horizon_weeks"`
	Forecast     forecastWire `json:"forecast"`
	ResourcePlan resourceWire `json:"resource_plan"`
	Warnings     []string     `json:"warnings,omitempty"`
}

type forecastWire struct {
	Method            string       `json:"method"`
	Points            []pointWire  `json:"points"`
	SeverityBreakdown severityWire `json:"severity_breakdown_inflow"`
}

type pointWire struct {
	Week    int     `json:"week"`
	Inflow  float64 `json:"inflow_total"`
	Outflow float64 `json:"outflow_total"`
}

type severityWire struct {
	Critical float64 `json:"critical"`
	High     float64 `json:"high"`
	Medium   float64 `json:"medium"`
	Low      float64 `json:"low"`
}

type resourceWire struct {
	EstimatedTotalHours  float64 `json:"estimated_total_hours"`
	RecommendedEngineers int     `json:"recommended_engineers"`
	QAEffortHours        float64 `json:"qa_effort_hours"`
}

func (s Sink) writeForecastPlan(b pipeline.Bundle) error {
	plan := forecastPlan{
		RunID:        b.RunID,
		HorizonWeeks: b.Forecast.Horizon,
		Forecast: forecastWire{
			Method: b.Forecast.Method.String(),
			SeverityBreakdown: severityWire{
				Critical: b.Forecast.Severity.Critical,
				High:     b.Forecast.Severity.High,
				Medium:   b.Forecast.Severity.Medium,
				Low:      b.Forecast.Severity.Low,
			},
		},
		ResourcePlan: resourceWire{
			EstimatedTotalHours:  round1(b.Recommendation.EstimatedTotalHours),
			RecommendedEngineers: b.Recommendation.RecommendedEngineers,
			QAEffortHours:        round1(b.Recommendation.QAEffortHours),
		},
		Warnings: b.Warnings,
	}
	for _, pt := range b.Forecast.Points {
		plan.Forecast.Points = append(plan.Forecast.Points, pointWire{
			Week:    pt.Week,
			Inflow:  round1(pt.Inflow),
			Outflow: round1(pt.Outflow),
		})
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "encode forecast plan")
	}
	path := filepath.Join(s.Dir, ForecastFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "write %s", path)
	}
	return nil
}

// formatFloat keeps CSV output byte-stable across runs
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
