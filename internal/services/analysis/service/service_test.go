package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"defectwatch/internal/config"
	"defectwatch/internal/core/weekly"
	perr "defectwatch/internal/platform/errors"
	"defectwatch/internal/platform/testkit"
	"defectwatch/internal/services/analysis/domain"
	svc "defectwatch/internal/services/analysis/service"
)

func model(t *testing.T) *config.Analysis {
	t.Helper()
	m := config.Default()
	if err := m.Validate(); err != nil {
		t.Fatalf("default model invalid: %v", err)
	}
	return &m
}

func weeks(n int) []domain.WeekInput {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	out := make([]domain.WeekInput, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.WeekInput{
			WeekStart:          start.AddDate(0, 0, 7*i).Format("2006-01-02"),
			InflowTotal:        20 + i,
			OutflowTotal:       18,
			SeverityCriticalIn: 1,
			SeverityHighIn:     4,
			SeverityMediumIn:   10 + i,
			SeverityLowIn:      5,
			AvgResolutionHours: 30,
			BacklogTotal:       40 + 2*i,
		})
	}
	return out
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	s := svc.New(model(t))
	out, err := s.Analyze(context.Background(), domain.AnalyzeInput{Records: weeks(6)})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if out.RunID == "" {
		t.Fatal("missing run id")
	}
	if len(out.Derived) != 6 || len(out.Indicators) != 6 {
		t.Fatalf("derived=%d indicators=%d", len(out.Derived), len(out.Indicators))
	}
	if out.Forecast.Method != "moving_average" || out.Forecast.HorizonWeeks != 4 {
		t.Fatalf("forecast = %+v", out.Forecast)
	}
	if len(out.Forecast.Points) != 4 {
		t.Fatalf("points = %d", len(out.Forecast.Points))
	}
	if out.ResourcePlan.RecommendedEngineers < 1 {
		t.Fatalf("plan = %+v", out.ResourcePlan)
	}
	if out.Derived[0].WeekStart != "2024-03-04" {
		t.Fatalf("week start = %q", out.Derived[0].WeekStart)
	}
}

func TestAnalyzeOverrides(t *testing.T) {
	t.Parallel()

	s := svc.New(model(t))
	out, err := s.Analyze(context.Background(), domain.AnalyzeInput{
		Records:      weeks(6),
		HorizonWeeks: 2,
		Method:       "linear",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.Forecast.Method != "linear" || out.Forecast.HorizonWeeks != 2 {
		t.Fatalf("forecast = %+v", out.Forecast)
	}
	if len(out.Forecast.Points) != 2 {
		t.Fatalf("points = %d", len(out.Forecast.Points))
	}
}

func TestAnalyzeBadWeekStart(t *testing.T) {
	t.Parallel()

	in := domain.AnalyzeInput{Records: weeks(3)}
	in.Records[1].WeekStart = "03/11/2024"

	s := svc.New(model(t))
	_, err := s.Analyze(context.Background(), in)
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAnalyzeBadMethod(t *testing.T) {
	t.Parallel()

	s := svc.New(model(t))
	_, err := s.Analyze(context.Background(), domain.AnalyzeInput{Records: weeks(3), Method: "ewma"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestAnalyzeNonChronological(t *testing.T) {
	t.Parallel()

	in := domain.AnalyzeInput{Records: weeks(3)}
	in.Records[0], in.Records[2] = in.Records[2], in.Records[0]

	s := svc.New(model(t))
	_, err := s.Analyze(context.Background(), in)
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAnalyzeRecords(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	recs := []weekly.WeeklyRecord{
		{WeekStart: start, InflowTotal: 10, OutflowTotal: 8, SeverityMediumIn: 10, AvgResolutionHours: 24, BacklogTotal: 12},
		{WeekStart: start.AddDate(0, 0, 7), InflowTotal: 12, OutflowTotal: 9, SeverityMediumIn: 12, AvgResolutionHours: 24, BacklogTotal: 15},
	}

	s := svc.New(model(t))
	b, err := s.AnalyzeRecords(context.Background(), recs, 3)
	if err != nil {
		t.Fatalf("AnalyzeRecords: %v", err)
	}
	if b.Forecast.Horizon != 3 || len(b.Forecast.Points) != 3 {
		t.Fatalf("forecast = %+v", b.Forecast)
	}
	// flat-repeat moving average over both weeks
	testkit.CloseTo(t, b.Forecast.Points[0].Inflow, 11, 1e-9)
}

func TestNewRequiresModel(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { svc.New(nil) })
}

func TestAnalyzeSeveritySumWarning(t *testing.T) {
	t.Parallel()

	in := domain.AnalyzeInput{Records: weeks(3)}
	in.Records[0].SeverityLowIn = 50 // sum now exceeds inflow

	s := svc.New(model(t))
	out, err := s.Analyze(context.Background(), in)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(out.Warnings) == 0 {
		t.Fatal("expected a severity-sum warning")
	}
	testkit.MustContain(t, fmt.Sprint(out.Warnings), "severity")
}
