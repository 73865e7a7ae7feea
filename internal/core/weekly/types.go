// Package weekly defines the base and derived weekly defect measures
package weekly

import "time"

// WeeklyRecord is one week of base measures. Records are immutable once
// loaded; the sequence is chronological with unique week starts
type WeeklyRecord struct {
	WeekStart          time.Time
	InflowTotal        int
	OutflowTotal       int
	SeverityCriticalIn int
	SeverityHighIn     int
	SeverityMediumIn   int
	SeverityLowIn      int
	AvgResolutionHours float64
	BacklogTotal       int
}

// SeverityWeights scale per-severity inflow into a single weighted measure
type SeverityWeights struct {
	Critical float64
	High     float64
	Medium   float64
	Low      float64
}

// DefaultSeverityWeights mirror the commonly used triage weighting
func DefaultSeverityWeights() SeverityWeights {
	return SeverityWeights{Critical: 5, High: 3, Medium: 2, Low: 1}
}

// DerivedRecord is a WeeklyRecord plus per-week arithmetic transformations.
// One DerivedRecord per input week, never mutated after creation
type DerivedRecord struct {
	WeeklyRecord

	// NetFlow is inflow minus outflow; positive means backlog growth
	NetFlow int

	SeverityRatioCritical float64
	SeverityRatioHigh     float64
	SeverityRatioMedium   float64
	SeverityRatioLow      float64

	// ResolutionEfficiency is outflow per average resolution hour
	ResolutionEfficiency float64

	// RollingBacklogDelta is backlog[i] - backlog[i-1], 0 for the first week
	RollingBacklogDelta int

	SeverityWeightedInflow float64

	// SevereInflow counts critical plus high inflow
	SevereInflow int
}
