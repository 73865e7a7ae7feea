package github

import (
	"testing"
	"time"

	"defectwatch/internal/platform/testkit"
	ptime "defectwatch/internal/platform/time"
)

func lbl(names ...string) []Label {
	out := make([]Label, 0, len(names))
	for _, n := range names {
		out = append(out, Label{Name: n})
	}
	return out
}

func TestSeverityFromLabels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		labels []Label
		want   string
	}{
		{"colon form", lbl("bug", "severity:critical"), sevCritical},
		{"dash form", lbl("severity-high"), sevHigh},
		{"tracker prefix", lbl("bugzilla/severity-low"), sevLow},
		{"case and spacing", lbl(" Severity: Blocker "), sevCritical},
		{"bugzilla aliases", lbl("severity:major"), sevHigh},
		{"minor alias", lbl("severity:trivial"), sevLow},
		{"p0", lbl("p0"), sevCritical},
		{"p1", lbl("p1"), sevHigh},
		{"p2", lbl("p2"), sevMedium},
		{"p3", lbl("p3"), sevLow},
		{"keyword critical", lbl("release-blocker!"), sevCritical},
		{"keyword crash", lbl("crash-on-startup"), sevHigh},
		{"keyword regression", lbl("regression"), sevHigh},
		{"explicit beats keyword", lbl("crash-on-startup", "severity:low"), sevLow},
		{"unlabeled defaults medium", nil, sevMedium},
		{"unrecognized defaults medium", lbl("bug", "help wanted"), sevMedium},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := severityFromLabels(tc.labels); got != tc.want {
				t.Fatalf("severityFromLabels(%v) = %q, want %q", tc.labels, got, tc.want)
			}
		})
	}
}

func TestWeekFloor(t *testing.T) {
	t.Parallel()

	// 2024-03-06 is a Wednesday, its week starts Monday 2024-03-04
	mon := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	cases := []time.Time{
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 6, 13, 45, 12, 0, time.UTC),
		time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), // Sunday
	}
	for _, in := range cases {
		if got := weekFloor(in); !got.Equal(mon) {
			t.Fatalf("weekFloor(%s) = %s, want %s", in, got, mon)
		}
	}

	// Non-UTC inputs are normalized before flooring
	loc := time.FixedZone("plus10", 10*3600)
	in := time.Date(2024, 3, 4, 2, 0, 0, 0, loc) // 2024-03-03T16:00Z, prior week
	want := time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)
	if got := weekFloor(in); !got.Equal(want) {
		t.Fatalf("weekFloor(%s) = %s, want %s", in, got, want)
	}
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()
	if got := Aggregate(nil); got != nil {
		t.Fatalf("Aggregate(nil) = %v, want nil", got)
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	w1 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	w3 := w1.AddDate(0, 0, 14)
	closed := w1.Add(48 * time.Hour)

	issues := []Issue{
		{Number: 1, CreatedAt: w1.Add(2 * time.Hour), Labels: lbl("severity:critical")},
		{Number: 2, CreatedAt: w1.Add(26 * time.Hour), Labels: lbl("p1"), ClosedAt: ptime.Ptr(closed)},
		{Number: 3, CreatedAt: w3.Add(time.Hour)},
	}

	recs := Aggregate(issues)
	if len(recs) != 3 {
		t.Fatalf("expected 3 weeks including gap fill, got %d", len(recs))
	}

	r0 := recs[0]
	if !r0.WeekStart.Equal(w1) || r0.InflowTotal != 2 || r0.OutflowTotal != 1 {
		t.Fatalf("week 0 = %+v", r0)
	}
	if r0.SeverityCriticalIn != 1 || r0.SeverityHighIn != 1 || r0.SeverityMediumIn != 0 {
		t.Fatalf("week 0 severities = %+v", r0)
	}
	if r0.BacklogTotal != 1 {
		t.Fatalf("week 0 backlog = %d, want 1", r0.BacklogTotal)
	}
	// Issue 2 closed 22h after creation
	testkit.CloseTo(t, r0.AvgResolutionHours, 22, 1e-9)

	// Gap week is zero activity with carried backlog and default resolution
	r1 := recs[1]
	if r1.InflowTotal != 0 || r1.OutflowTotal != 0 || r1.BacklogTotal != 1 {
		t.Fatalf("gap week = %+v", r1)
	}
	testkit.CloseTo(t, r1.AvgResolutionHours, defaultResolutionHours, 1e-9)

	r2 := recs[2]
	if r2.InflowTotal != 1 || r2.SeverityMediumIn != 1 || r2.BacklogTotal != 2 {
		t.Fatalf("week 2 = %+v", r2)
	}
}

func TestAggregateBacklogClampsAtZero(t *testing.T) {
	t.Parallel()

	// Inconsistent API payloads can report a closure before the creation
	// landed. The running backlog must never go negative on such data
	w1 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	w2 := w1.AddDate(0, 0, 7)
	c1 := w1.Add(6 * time.Hour)
	issues := []Issue{
		{Number: 1, CreatedAt: w2.Add(time.Hour), ClosedAt: ptime.Ptr(c1)},
		{Number: 2, CreatedAt: w2.Add(2 * time.Hour)},
	}

	recs := Aggregate(issues)
	if len(recs) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(recs))
	}
	if recs[0].OutflowTotal != 1 || recs[0].BacklogTotal != 0 {
		t.Fatalf("week 0 = %+v, want outflow 1 and backlog clamped at 0", recs[0])
	}
	if recs[1].InflowTotal != 2 || recs[1].BacklogTotal != 2 {
		t.Fatalf("week 1 = %+v", recs[1])
	}
}
