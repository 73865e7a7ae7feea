package weekly

// Derive produces one DerivedRecord per input week, in input order.
// Pure function of the input sequence; division-by-zero cases are defined
// as 0 rather than errors
func Derive(recs []WeeklyRecord, w SeverityWeights) []DerivedRecord {
	out := make([]DerivedRecord, len(recs))
	for i, r := range recs {
		d := DerivedRecord{
			WeeklyRecord: r,
			NetFlow:      r.InflowTotal - r.OutflowTotal,
			SevereInflow: r.SeverityCriticalIn + r.SeverityHighIn,
			SeverityWeightedInflow: w.Critical*float64(r.SeverityCriticalIn) +
				w.High*float64(r.SeverityHighIn) +
				w.Medium*float64(r.SeverityMediumIn) +
				w.Low*float64(r.SeverityLowIn),
		}
		if r.InflowTotal > 0 {
			in := float64(r.InflowTotal)
			d.SeverityRatioCritical = float64(r.SeverityCriticalIn) / in
			d.SeverityRatioHigh = float64(r.SeverityHighIn) / in
			d.SeverityRatioMedium = float64(r.SeverityMediumIn) / in
			d.SeverityRatioLow = float64(r.SeverityLowIn) / in
		}
		if r.AvgResolutionHours > 0 {
			d.ResolutionEfficiency = float64(r.OutflowTotal) / r.AvgResolutionHours
		}
		if i > 0 {
			d.RollingBacklogDelta = r.BacklogTotal - recs[i-1].BacklogTotal
		}
		out[i] = d
	}
	return out
}
