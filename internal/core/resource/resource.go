// Package resource converts forecasted inflow into a staffing recommendation
package resource

import (
	"math"

	"defectwatch/internal/core/forecast"
	perr "defectwatch/internal/platform/errors"
)

// Constants are the configured estimation parameters, all strictly positive
type Constants struct {
	HoursPerDefect       float64
	HoursPerEngineerWeek float64
	QAEffortRatio        float64
}

// Recommendation is the staffing output derived from a forecast
type Recommendation struct {
	EstimatedTotalHours  float64
	RecommendedEngineers int
	QAEffortHours        float64
}

// Estimate is a pure function of the forecast and the constants.
// Total hours cover the predicted inflow across the whole horizon;
// engineers are the ceiling of total hours over one engineer-week
func Estimate(fc forecast.Result, c Constants) (Recommendation, error) {
	if c.HoursPerDefect <= 0 {
		return Recommendation{}, perr.WithField(
			perr.InvalidConfigf("hours_per_defect must be positive, got %v", c.HoursPerDefect),
			"resource.hours_per_defect")
	}
	if c.HoursPerEngineerWeek <= 0 {
		return Recommendation{}, perr.WithField(
			perr.InvalidConfigf("hours_per_engineer_week must be positive, got %v", c.HoursPerEngineerWeek),
			"resource.hours_per_engineer_week")
	}
	if c.QAEffortRatio <= 0 {
		return Recommendation{}, perr.WithField(
			perr.InvalidConfigf("qa_effort_ratio must be positive, got %v", c.QAEffortRatio),
			"resource.qa_effort_ratio")
	}

	var inflowSum float64
	for _, pt := range fc.Points {
		inflowSum += pt.Inflow
	}

	total := inflowSum * c.HoursPerDefect
	return Recommendation{
		EstimatedTotalHours:  total,
		RecommendedEngineers: int(math.Ceil(total / c.HoursPerEngineerWeek)),
		QAEffortHours:        total * c.QAEffortRatio,
	}, nil
}
