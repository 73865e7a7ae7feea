package weekly

import (
	"fmt"

	perr "defectwatch/internal/platform/errors"
)

// ValidateSeries checks the base-measure sequence at the pipeline boundary.
// Malformed or out-of-range fields and broken chronology are hard errors;
// a severity sum exceeding the inflow total is a data-quality warning only,
// since it does not block computation
func ValidateSeries(recs []WeeklyRecord) (warnings []string, err error) {
	if len(recs) == 0 {
		return nil, perr.Validationf("no weekly records")
	}
	for i, r := range recs {
		week := r.WeekStart.Format("2006-01-02")
		if r.WeekStart.IsZero() {
			return nil, perr.WithField(perr.Validationf("week %d: missing week start", i), "week_start")
		}
		if r.InflowTotal < 0 {
			return nil, perr.WithField(perr.Validationf("week %s: negative inflow", week), "defects_inflow_total")
		}
		if r.OutflowTotal < 0 {
			return nil, perr.WithField(perr.Validationf("week %s: negative outflow", week), "defects_outflow_total")
		}
		if r.SeverityCriticalIn < 0 || r.SeverityHighIn < 0 || r.SeverityMediumIn < 0 || r.SeverityLowIn < 0 {
			return nil, perr.WithField(perr.Validationf("week %s: negative severity count", week), "severity_in")
		}
		if r.AvgResolutionHours < 0 {
			return nil, perr.WithField(
				perr.Validationf("week %s: negative resolution time", week), "avg_resolution_time_hours")
		}
		if r.BacklogTotal < 0 {
			return nil, perr.WithField(perr.Validationf("week %s: negative backlog", week), "backlog_total")
		}
		if i > 0 && !recs[i-1].WeekStart.Before(r.WeekStart) {
			return nil, perr.WithField(
				perr.Validationf("week %s: not after previous week %s",
					week, recs[i-1].WeekStart.Format("2006-01-02")),
				"week_start")
		}
		sevSum := r.SeverityCriticalIn + r.SeverityHighIn + r.SeverityMediumIn + r.SeverityLowIn
		if sevSum > r.InflowTotal {
			warnings = append(warnings,
				fmt.Sprintf("week %s: severity counts sum to %d, exceeding inflow total %d", week, sevSum, r.InflowTotal))
		}
	}
	return warnings, nil
}
