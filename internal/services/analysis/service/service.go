// Package service contains the analysis run workflow
package service

import (
	"context"
	"time"

	"defectwatch/internal/config"
	"defectwatch/internal/core/forecast"
	"defectwatch/internal/core/pipeline"
	"defectwatch/internal/core/weekly"
	perr "defectwatch/internal/platform/errors"
	"defectwatch/internal/services/analysis/domain"
)

const weekLayout = "2006-01-02"

// Service defines the service contract for analysis
type Service interface{ domain.ServicePort }

// Svc implements the Service interface over one loaded analysis model
type Svc struct {
	model *config.Analysis
}

// New creates a new analysis service
func New(model *config.Analysis) *Svc {
	if model == nil {
		panic("analysis.Service requires a non nil model")
	}
	return &Svc{model: model}
}

// AnalyzeRecords runs the pipeline over parsed records
func (s *Svc) AnalyzeRecords(ctx context.Context, recs []weekly.WeeklyRecord, horizonOverride int) (pipeline.Bundle, error) {
	cfg, err := s.model.Pipeline(horizonOverride)
	if err != nil {
		return pipeline.Bundle{}, err
	}
	return pipeline.Run(ctx, recs, cfg)
}

// Analyze converts the wire records, applies request overrides, and runs the
// pipeline
func (s *Svc) Analyze(ctx context.Context, in domain.AnalyzeInput) (domain.AnalyzeOutput, error) {
	recs, err := toRecords(in.Records)
	if err != nil {
		return domain.AnalyzeOutput{}, err
	}

	cfg, err := s.model.Pipeline(in.HorizonWeeks)
	if err != nil {
		return domain.AnalyzeOutput{}, err
	}
	if in.Method != "" {
		m, err := forecast.ParseMethod(in.Method)
		if err != nil {
			return domain.AnalyzeOutput{}, err
		}
		cfg.Forecast.Method = m
	}

	b, err := pipeline.Run(ctx, recs, cfg)
	if err != nil {
		return domain.AnalyzeOutput{}, err
	}
	return toOutput(b), nil
}

func toRecords(in []domain.WeekInput) ([]weekly.WeeklyRecord, error) {
	recs := make([]weekly.WeeklyRecord, 0, len(in))
	for _, w := range in {
		week, err := time.Parse(weekLayout, w.WeekStart)
		if err != nil {
			return nil, perr.WithField(
				perr.Validationf("week_start is not a date: %q", w.WeekStart), "week_start")
		}
		recs = append(recs, weekly.WeeklyRecord{
			WeekStart:          week,
			InflowTotal:        w.InflowTotal,
			OutflowTotal:       w.OutflowTotal,
			SeverityCriticalIn: w.SeverityCriticalIn,
			SeverityHighIn:     w.SeverityHighIn,
			SeverityMediumIn:   w.SeverityMediumIn,
			SeverityLowIn:      w.SeverityLowIn,
			AvgResolutionHours: w.AvgResolutionHours,
			BacklogTotal:       w.BacklogTotal,
		})
	}
	return recs, nil
}

func toOutput(b pipeline.Bundle) domain.AnalyzeOutput {
	out := domain.AnalyzeOutput{
		RunID: b.RunID,
		Forecast: domain.ForecastOutput{
			Method:       b.Forecast.Method.String(),
			HorizonWeeks: b.Forecast.Horizon,
			SeverityBreakdown: domain.SeverityBreakdown{
				Critical: b.Forecast.Severity.Critical,
				High:     b.Forecast.Severity.High,
				Medium:   b.Forecast.Severity.Medium,
				Low:      b.Forecast.Severity.Low,
			},
		},
		ResourcePlan: domain.ResourcePlan{
			EstimatedTotalHours:  b.Recommendation.EstimatedTotalHours,
			RecommendedEngineers: b.Recommendation.RecommendedEngineers,
			QAEffortHours:        b.Recommendation.QAEffortHours,
		},
		Warnings: b.Warnings,
	}
	for _, d := range b.Derived {
		out.Derived = append(out.Derived, domain.DerivedWeek{
			WeekStart:              d.WeekStart.Format(weekLayout),
			InflowTotal:            d.InflowTotal,
			OutflowTotal:           d.OutflowTotal,
			BacklogTotal:           d.BacklogTotal,
			NetFlow:                d.NetFlow,
			SeverityRatioCritical:  d.SeverityRatioCritical,
			SeverityRatioHigh:      d.SeverityRatioHigh,
			SeverityRatioMedium:    d.SeverityRatioMedium,
			SeverityRatioLow:       d.SeverityRatioLow,
			ResolutionEfficiency:   d.ResolutionEfficiency,
			RollingBacklogDelta:    d.RollingBacklogDelta,
			SeverityWeightedInflow: d.SeverityWeightedInflow,
			SevereInflow:           d.SevereInflow,
		})
	}
	for _, ind := range b.Indicators {
		out.Indicators = append(out.Indicators, domain.IndicatorWeek{
			WeekStart:                ind.WeekStart.Format(weekLayout),
			IsProblematic:            ind.IsProblematic,
			ConsecutiveOverflowWeeks: ind.ConsecutiveOverflowWeeks,
			Flags:                    ind.Flags,
			Health:                   string(ind.Health),
		})
	}
	for _, pt := range b.Forecast.Points {
		out.Forecast.Points = append(out.Forecast.Points, domain.ForecastPoint{
			Week:    pt.Week,
			Inflow:  pt.Inflow,
			Outflow: pt.Outflow,
		})
	}
	return out
}
