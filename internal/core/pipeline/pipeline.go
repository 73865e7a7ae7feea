// Package pipeline sequences the analysis stages over one set of weekly records
package pipeline

import (
	"context"

	"defectwatch/internal/core/forecast"
	"defectwatch/internal/core/indicator"
	"defectwatch/internal/core/resource"
	"defectwatch/internal/core/weekly"
	perr "defectwatch/internal/platform/errors"
	"defectwatch/internal/platform/logger"

	"github.com/google/uuid"
)

// Config bundles the per-stage parameters for one run
type Config struct {
	Weights    weekly.SeverityWeights
	Thresholds indicator.Thresholds
	Forecast   forecast.Params
	Resource   resource.Constants
}

// Bundle is the assembled output of one pipeline run. All slices are created
// fresh per run and never mutated afterwards
type Bundle struct {
	RunID          string
	Derived        []weekly.DerivedRecord
	Indicators     []indicator.Indicator
	Forecast       forecast.Result
	Recommendation resource.Recommendation

	// Warnings carry soft data-quality findings (severity sums exceeding
	// inflow); they never fail the run
	Warnings []string
}

// newRunID is a seam for tests
var newRunID = uuid.NewString

// Run validates the records, then threads them through derive, scan,
// project, and estimate. Fails fast: the first stage error aborts the run
// and is surfaced unchanged apart from its stage tag
func Run(ctx context.Context, recs []weekly.WeeklyRecord, cfg Config) (Bundle, error) {
	runID := newRunID()
	ctx = logger.WithRun(ctx, runID, "")
	log := logger.C(ctx)

	warnings, err := weekly.ValidateSeries(recs)
	if err != nil {
		return Bundle{}, perr.WithOp(err, "validate")
	}
	for _, w := range warnings {
		log.Warn().Str("stage", "validate").Msg(w)
	}

	derived := weekly.Derive(recs, cfg.Weights)
	indicators := indicator.Scan(derived, cfg.Thresholds)

	fc, err := forecast.Project(derived, cfg.Forecast)
	if err != nil {
		return Bundle{}, perr.WithOp(err, "forecast")
	}

	rec, err := resource.Estimate(fc, cfg.Resource)
	if err != nil {
		return Bundle{}, perr.WithOp(err, "estimate")
	}

	log.Info().
		Int("weeks", len(recs)).
		Str("method", cfg.Forecast.Method.String()).
		Int("horizon", cfg.Forecast.Horizon).
		Int("engineers", rec.RecommendedEngineers).
		Msg("pipeline run complete")

	return Bundle{
		RunID:          runID,
		Derived:        derived,
		Indicators:     indicators,
		Forecast:       fc,
		Recommendation: rec,
		Warnings:       warnings,
	}, nil
}
