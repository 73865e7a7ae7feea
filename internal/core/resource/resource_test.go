package resource

import (
	"testing"

	"defectwatch/internal/core/forecast"
	perr "defectwatch/internal/platform/errors"
	kit "defectwatch/internal/platform/testkit"
)

func TestEstimate(t *testing.T) {
	fc := forecast.Result{
		Horizon: 4,
		Points: []forecast.Point{
			{Week: 1, Inflow: 25},
			{Week: 2, Inflow: 24},
			{Week: 3, Inflow: 24},
			{Week: 4, Inflow: 24},
		},
	}
	rec, err := Estimate(fc, Constants{HoursPerDefect: 4, HoursPerEngineerWeek: 40, QAEffortRatio: 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// inflow sum 97 * 4h = 388h -> ceil(388/40) = 10 engineers
	kit.CloseTo(t, rec.EstimatedTotalHours, 388, 1e-9)
	if rec.RecommendedEngineers != 10 {
		t.Fatalf("engineers = %d, want 10", rec.RecommendedEngineers)
	}
	kit.CloseTo(t, rec.QAEffortHours, 116.4, 1e-9)
}

func TestEstimate_ExactDivisionNeedsNoExtraEngineer(t *testing.T) {
	fc := forecast.Result{Points: []forecast.Point{{Week: 1, Inflow: 10}}}
	rec, err := Estimate(fc, Constants{HoursPerDefect: 4, HoursPerEngineerWeek: 40, QAEffortRatio: 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.RecommendedEngineers != 1 {
		t.Fatalf("engineers = %d, want 1", rec.RecommendedEngineers)
	}
}

func TestEstimate_InvalidConstants(t *testing.T) {
	fc := forecast.Result{Points: []forecast.Point{{Week: 1, Inflow: 10}}}
	tests := []struct {
		name      string
		c         Constants
		wantField string
	}{
		{
			name:      "zero hours per defect",
			c:         Constants{HoursPerDefect: 0, HoursPerEngineerWeek: 40, QAEffortRatio: 0.3},
			wantField: "resource.hours_per_defect",
		},
		{
			name:      "negative capacity",
			c:         Constants{HoursPerDefect: 4, HoursPerEngineerWeek: -40, QAEffortRatio: 0.3},
			wantField: "resource.hours_per_engineer_week",
		},
		{
			name:      "zero qa ratio",
			c:         Constants{HoursPerDefect: 4, HoursPerEngineerWeek: 40, QAEffortRatio: 0},
			wantField: "resource.qa_effort_ratio",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(fc, tt.c)
			if !perr.IsCode(err, perr.ErrorCodeInvalidConfig) {
				t.Fatalf("code = %d, want invalid config", perr.CodeOf(err))
			}
			e, _ := perr.As(err)
			if e.Field() != tt.wantField {
				t.Fatalf("field = %q, want %q", e.Field(), tt.wantField)
			}
		})
	}
}
