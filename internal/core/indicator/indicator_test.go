package indicator

import (
	"testing"
	"time"

	"defectwatch/internal/core/weekly"
)

func series(t *testing.T, netFlows ...int) []weekly.DerivedRecord {
	t.Helper()
	start, err := time.Parse("2006-01-02", "2025-06-02")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := make([]weekly.DerivedRecord, len(netFlows))
	for i, nf := range netFlows {
		out[i] = weekly.DerivedRecord{
			WeeklyRecord: weekly.WeeklyRecord{WeekStart: start.AddDate(0, 0, 7*i)},
			NetFlow:      nf,
		}
	}
	return out
}

func TestScan_ConsecutiveCounterAndReset(t *testing.T) {
	derived := series(t, 1, 2, -1, 3, 4, 5)
	out := Scan(derived, Thresholds{ConsecutiveWeeks: 3})

	wantCounts := []int{1, 2, 0, 1, 2, 3}
	wantProblem := []bool{false, false, false, false, false, true}
	for i := range out {
		if out[i].ConsecutiveOverflowWeeks != wantCounts[i] {
			t.Fatalf("week %d: count = %d, want %d", i, out[i].ConsecutiveOverflowWeeks, wantCounts[i])
		}
		if out[i].IsProblematic != wantProblem[i] {
			t.Fatalf("week %d: problematic = %v, want %v", i, out[i].IsProblematic, wantProblem[i])
		}
	}
}

func TestScan_ProblematicIffLastTWeeksPositive(t *testing.T) {
	derived := series(t, 1, 1, 1, 1)
	out := Scan(derived, Thresholds{ConsecutiveWeeks: 2})
	want := []bool{false, true, true, true}
	for i := range out {
		if out[i].IsProblematic != want[i] {
			t.Fatalf("week %d: problematic = %v, want %v", i, out[i].IsProblematic, want[i])
		}
	}
}

func TestScan_ShortHistoryNeverProblematic(t *testing.T) {
	derived := series(t, 5, 5)
	out := Scan(derived, Thresholds{ConsecutiveWeeks: 3})
	for i := range out {
		if out[i].IsProblematic {
			t.Fatalf("week %d flagged with only %d weeks of history", i, len(derived))
		}
	}
}

func TestScan_ZeroNetFlowResets(t *testing.T) {
	derived := series(t, 1, 0, 1)
	out := Scan(derived, Thresholds{ConsecutiveWeeks: 1})
	if out[1].ConsecutiveOverflowWeeks != 0 || out[1].IsProblematic {
		t.Fatalf("net flow 0 must reset the counter: %+v", out[1])
	}
}

func TestScan_BacklogAndHealth(t *testing.T) {
	derived := series(t, 1, 1, 1)
	derived[2].BacklogTotal = 100
	th := Thresholds{ConsecutiveWeeks: 2, BacklogHealthyMax: 50, HealthyMaxInflow: 20}

	out := Scan(derived, th)

	if out[0].Health != HealthGreen {
		t.Fatalf("week 0 health = %q, want green", out[0].Health)
	}
	// sustained overflow only
	if out[1].Health != HealthYellow {
		t.Fatalf("week 1 health = %q, want yellow", out[1].Health)
	}
	// sustained overflow plus high backlog
	if !hasFlag(out[2].Flags, FlagBacklogHigh) {
		t.Fatalf("week 2 missing backlog flag: %v", out[2].Flags)
	}
	if out[2].Health != HealthRed {
		t.Fatalf("week 2 health = %q, want red", out[2].Health)
	}
}

func TestScan_SevereSpikeWindow(t *testing.T) {
	derived := series(t, -1, -1, -1, -1)
	derived[1].SevereInflow = 4
	derived[2].SevereInflow = 4
	th := Thresholds{ConsecutiveWeeks: 3, SevereWindow: 2, SevereMin: 8}

	out := Scan(derived, th)

	if hasFlag(out[1].Flags, FlagSevereSpike) {
		t.Fatalf("week 1 should not spike: sum is 4")
	}
	if !hasFlag(out[2].Flags, FlagSevereSpike) || out[2].Health != HealthRed {
		t.Fatalf("week 2 should be a red severe spike: %+v", out[2])
	}
	// window slid past the spike
	if hasFlag(out[3].Flags, FlagSevereSpike) {
		t.Fatalf("week 3 should not spike: window sum is 4")
	}
}

func TestScan_HealthyInflowCeiling(t *testing.T) {
	derived := series(t, -1)
	derived[0].InflowTotal = 25
	out := Scan(derived, Thresholds{ConsecutiveWeeks: 3, HealthyMaxInflow: 20})
	if out[0].Health != HealthYellow {
		t.Fatalf("inflow above ceiling should be yellow, got %q", out[0].Health)
	}
}
