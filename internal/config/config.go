// Package config loads and validates the YAML analysis model.
// Process-level settings (ports, log levels) come from the environment via
// internal/platform/config instead; this file covers the thresholds,
// forecast, and resource parameters of a pipeline run
package config

import (
	"os"

	"defectwatch/internal/core/forecast"
	"defectwatch/internal/core/indicator"
	"defectwatch/internal/core/pipeline"
	"defectwatch/internal/core/resource"
	"defectwatch/internal/core/weekly"
	perr "defectwatch/internal/platform/errors"
	"defectwatch/internal/platform/validate"

	"gopkg.in/yaml.v3"
)

// Analysis is the top-level analysis model. Fields map 1:1 to
// analysis_model.yaml. Loaded once, read-only for the lifetime of a run
type Analysis struct {
	SeverityWeights SeverityWeights `yaml:"severity_weights"`
	Indicator       Indicator       `yaml:"indicator"`
	Forecast        Forecast        `yaml:"forecast"`
	Resource        Resource        `yaml:"resource"`
}

// SeverityWeights scale per-severity inflow in the derived measures
type SeverityWeights struct {
	Critical float64 `yaml:"critical" validate:"gte=0"`
	High     float64 `yaml:"high" validate:"gte=0"`
	Medium   float64 `yaml:"medium" validate:"gte=0"`
	Low      float64 `yaml:"low" validate:"gte=0"`
}

// Indicator holds the sustained-overflow threshold plus the supplemental
// health-status thresholds
type Indicator struct {
	// ConsecutiveWeekThreshold is the T of the sustained overflow rule
	ConsecutiveWeekThreshold int `yaml:"consecutive_week_threshold" validate:"min=1"`

	BacklogHealthyMax int `yaml:"backlog_healthy_max" validate:"min=1"`
	SevereWindow      int `yaml:"severe_window" validate:"min=1"`
	SevereMin         int `yaml:"severe_min" validate:"min=1"`
	HealthyMaxInflow  int `yaml:"healthy_max_inflow" validate:"min=1"`
}

// Forecast selects the trend model and horizon
type Forecast struct {
	// Method is moving_average or linear; checked by ParseMethod so an
	// unsupported name surfaces as an invalid-config error
	Method string `yaml:"method" validate:"required"`

	HorizonWeeks int `yaml:"horizon_weeks" validate:"min=1"`

	// MovingAverageWindow is only consulted when Method is moving_average
	MovingAverageWindow int `yaml:"moving_average_window" validate:"min=1"`
}

// Resource holds the staffing estimation constants
type Resource struct {
	HoursPerDefect       float64 `yaml:"hours_per_defect"`
	HoursPerEngineerWeek float64 `yaml:"hours_per_engineer_week"`
	QAEffortRatio        float64 `yaml:"qa_effort_ratio"`
}

// Default returns the analysis model used when fields are absent from the file
func Default() Analysis {
	return Analysis{
		SeverityWeights: SeverityWeights{Critical: 5, High: 3, Medium: 2, Low: 1},
		Indicator: Indicator{
			ConsecutiveWeekThreshold: 3,
			BacklogHealthyMax:        60,
			SevereWindow:             4,
			SevereMin:                12,
			HealthyMaxInflow:         25,
		},
		Forecast: Forecast{
			Method:              "moving_average",
			HorizonWeeks:        4,
			MovingAverageWindow: 4,
		},
		Resource: Resource{
			HoursPerDefect:       4,
			HoursPerEngineerWeek: 40,
			QAEffortRatio:        0.3,
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the result
func Load(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "read analysis config %s", path)
	}
	return Parse(data)
}

// Parse unmarshals YAML over the defaults and validates the result
func Parse(data []byte) (*Analysis, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "parse analysis config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies the struct tags, then the invalid-config checks the tags
// cannot express: the method name and the strictly positive resource constants
func (a *Analysis) Validate() error {
	if err := validate.Struct(a); err != nil {
		return err
	}
	if _, err := forecast.ParseMethod(a.Forecast.Method); err != nil {
		return err
	}
	if a.Resource.HoursPerDefect <= 0 {
		return perr.WithField(
			perr.InvalidConfigf("hours_per_defect must be positive"), "resource.hours_per_defect")
	}
	if a.Resource.HoursPerEngineerWeek <= 0 {
		return perr.WithField(
			perr.InvalidConfigf("hours_per_engineer_week must be positive"), "resource.hours_per_engineer_week")
	}
	if a.Resource.QAEffortRatio <= 0 {
		return perr.WithField(
			perr.InvalidConfigf("qa_effort_ratio must be positive"), "resource.qa_effort_ratio")
	}
	return nil
}

// Pipeline maps the validated model onto the per-stage core parameters.
// horizonOverride, when positive, wins over the configured horizon (CLI flag)
func (a *Analysis) Pipeline(horizonOverride int) (pipeline.Config, error) {
	method, err := forecast.ParseMethod(a.Forecast.Method)
	if err != nil {
		return pipeline.Config{}, err
	}
	horizon := a.Forecast.HorizonWeeks
	if horizonOverride > 0 {
		horizon = horizonOverride
	}
	return pipeline.Config{
		Weights: weekly.SeverityWeights{
			Critical: a.SeverityWeights.Critical,
			High:     a.SeverityWeights.High,
			Medium:   a.SeverityWeights.Medium,
			Low:      a.SeverityWeights.Low,
		},
		Thresholds: indicator.Thresholds{
			ConsecutiveWeeks:  a.Indicator.ConsecutiveWeekThreshold,
			BacklogHealthyMax: a.Indicator.BacklogHealthyMax,
			SevereWindow:      a.Indicator.SevereWindow,
			SevereMin:         a.Indicator.SevereMin,
			HealthyMaxInflow:  a.Indicator.HealthyMaxInflow,
		},
		Forecast: forecast.Params{
			Method:  method,
			Horizon: horizon,
			Window:  a.Forecast.MovingAverageWindow,
		},
		Resource: resource.Constants{
			HoursPerDefect:       a.Resource.HoursPerDefect,
			HoursPerEngineerWeek: a.Resource.HoursPerEngineerWeek,
			QAEffortRatio:        a.Resource.QAEffortRatio,
		},
	}, nil
}
