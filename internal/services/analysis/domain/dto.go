// Package domain holds DTOs for analysis http and service contracts
package domain

// WeekInput is one week of base measures on the wire
type WeekInput struct {
	WeekStart          string  `json:"week_start" validate:"required,datetime=2006-01-02" example:"2024-03-04"`
	InflowTotal        int     `json:"defects_inflow_total" validate:"min=0" example:"23"`
	OutflowTotal       int     `json:"defects_outflow_total" validate:"min=0" example:"19"`
	SeverityCriticalIn int     `json:"severity_critical_in" validate:"min=0" example:"2"`
	SeverityHighIn     int     `json:"severity_high_in" validate:"min=0" example:"6"`
	SeverityMediumIn   int     `json:"severity_medium_in" validate:"min=0" example:"10"`
	SeverityLowIn      int     `json:"severity_low_in" validate:"min=0" example:"5"`
	AvgResolutionHours float64 `json:"avg_resolution_time_hours" validate:"gte=0" example:"31.5"`
	BacklogTotal       int     `json:"backlog_total" validate:"min=0" example:"57"`
}

// AnalyzeInput is the analyze request body. Horizon and method override the
// configured analysis model when present
type AnalyzeInput struct {
	Records      []WeekInput `json:"records" validate:"required,min=1,dive"`
	HorizonWeeks int         `json:"horizon_weeks,omitempty" validate:"omitempty,min=1,max=52" example:"4"`
	Method       string      `json:"method,omitempty" validate:"omitempty,oneof=moving_average linear" example:"moving_average"`
}

// DerivedWeek is one week of derived measures
type DerivedWeek struct {
	WeekStart              string  `json:"week_start"`
	InflowTotal            int     `json:"defects_inflow_total"`
	OutflowTotal           int     `json:"defects_outflow_total"`
	BacklogTotal           int     `json:"backlog_total"`
	NetFlow                int     `json:"net_flow"`
	SeverityRatioCritical  float64 `json:"severity_ratio_critical"`
	SeverityRatioHigh      float64 `json:"severity_ratio_high"`
	SeverityRatioMedium    float64 `json:"severity_ratio_medium"`
	SeverityRatioLow       float64 `json:"severity_ratio_low"`
	ResolutionEfficiency   float64 `json:"resolution_efficiency"`
	RollingBacklogDelta    int     `json:"rolling_backlog_delta"`
	SeverityWeightedInflow float64 `json:"severity_weighted_inflow"`
	SevereInflow           int     `json:"severe_inflow"`
}

// IndicatorWeek is one week of problem-indicator output
type IndicatorWeek struct {
	WeekStart                string   `json:"week_start"`
	IsProblematic            bool     `json:"is_problematic"`
	ConsecutiveOverflowWeeks int      `json:"consecutive_overflow_weeks"`
	Flags                    []string `json:"problem_flags,omitempty"`
	Health                   string   `json:"health_status"`
}

// ForecastPoint is one projected week past the end of the history
type ForecastPoint struct {
	Week    int     `json:"week"`
	Inflow  float64 `json:"inflow_total"`
	Outflow float64 `json:"outflow_total"`
}

// SeverityBreakdown splits predicted inflow by severity
type SeverityBreakdown struct {
	Critical float64 `json:"critical"`
	High     float64 `json:"high"`
	Medium   float64 `json:"medium"`
	Low      float64 `json:"low"`
}

// ForecastOutput is the projection section of an analyze response
type ForecastOutput struct {
	Method            string            `json:"method"`
	HorizonWeeks      int               `json:"horizon_weeks"`
	Points            []ForecastPoint   `json:"points"`
	SeverityBreakdown SeverityBreakdown `json:"severity_breakdown_inflow"`
}

// ResourcePlan is the staffing section of an analyze response
type ResourcePlan struct {
	EstimatedTotalHours  float64 `json:"estimated_total_hours"`
	RecommendedEngineers int     `json:"recommended_engineers"`
	QAEffortHours        float64 `json:"qa_effort_hours"`
}

// AnalyzeOutput is the full analyze response body
type AnalyzeOutput struct {
	RunID        string          `json:"run_id"`
	Derived      []DerivedWeek   `json:"derived_measures"`
	Indicators   []IndicatorWeek `json:"indicators"`
	Forecast     ForecastOutput  `json:"forecast"`
	ResourcePlan ResourcePlan    `json:"resource_plan"`
	Warnings     []string        `json:"warnings,omitempty"`
}
