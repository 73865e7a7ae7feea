// Package indicator detects sustained-imbalance conditions over derived
// weekly measures
package indicator

import (
	"time"

	"defectwatch/internal/core/weekly"
)

// Health is the per-week traffic-light status
type Health string

const (
	// HealthGreen means inflow is within the healthy ceiling and no flags fired
	HealthGreen Health = "green"
	// HealthYellow means at least one flag fired, or inflow exceeds the healthy ceiling
	HealthYellow Health = "yellow"
	// HealthRed means a severe spike, or sustained overflow combined with a high backlog
	HealthRed Health = "red"
)

// Flag names attached to a week when its condition holds
const (
	FlagInflowGtOutflow = "inflow>outflow"
	FlagBacklogHigh     = "backlog_high"
	FlagSevereSpike     = "severe_spike"
)

// Thresholds configure the scan. ConsecutiveWeeks is the T of the sustained
// overflow rule; the rest feed the supplemental flags and health status
type Thresholds struct {
	ConsecutiveWeeks int
	BacklogHealthyMax int
	SevereWindow      int
	SevereMin         int
	HealthyMaxInflow  int
}

// Indicator is the per-week scan result
type Indicator struct {
	WeekStart time.Time

	// IsProblematic is true iff net flow was positive for this week and the
	// preceding ConsecutiveWeeks-1 weeks
	IsProblematic bool

	// ConsecutiveOverflowWeeks is the running count of weeks with positive
	// net flow, reset to 0 on any week with net flow <= 0
	ConsecutiveOverflowWeeks int

	Flags  []string
	Health Health
}

// Scan walks the derived sequence once, left to right, carrying O(1) state:
// the overflow counter and a rolling severe-inflow sum. With fewer than
// ConsecutiveWeeks weeks of history, IsProblematic stays false until the
// counter first reaches the threshold
func Scan(derived []weekly.DerivedRecord, th Thresholds) []Indicator {
	out := make([]Indicator, len(derived))

	overflow := 0
	severeSum := 0
	for i, d := range derived {
		if d.NetFlow > 0 {
			overflow++
		} else {
			overflow = 0
		}

		severeSum += d.SevereInflow
		if th.SevereWindow > 0 && i >= th.SevereWindow {
			severeSum -= derived[i-th.SevereWindow].SevereInflow
		}

		ind := Indicator{
			WeekStart:                d.WeekStart,
			ConsecutiveOverflowWeeks: overflow,
			IsProblematic:            th.ConsecutiveWeeks > 0 && overflow >= th.ConsecutiveWeeks,
		}
		if ind.IsProblematic {
			ind.Flags = append(ind.Flags, FlagInflowGtOutflow)
		}
		if th.BacklogHealthyMax > 0 && d.BacklogTotal > th.BacklogHealthyMax {
			ind.Flags = append(ind.Flags, FlagBacklogHigh)
		}
		severeSpike := th.SevereWindow > 0 && th.SevereMin > 0 && severeSum >= th.SevereMin
		if severeSpike {
			ind.Flags = append(ind.Flags, FlagSevereSpike)
		}

		switch {
		case severeSpike || (ind.IsProblematic && hasFlag(ind.Flags, FlagBacklogHigh)):
			ind.Health = HealthRed
		case len(ind.Flags) > 0:
			ind.Health = HealthYellow
		case th.HealthyMaxInflow > 0 && d.InflowTotal > th.HealthyMaxInflow:
			ind.Health = HealthYellow
		default:
			ind.Health = HealthGreen
		}

		out[i] = ind
	}
	return out
}

func hasFlag(flags []string, name string) bool {
	for _, f := range flags {
		if f == name {
			return true
		}
	}
	return false
}
