package github

import (
	"sort"
	"strings"
	"time"

	"defectwatch/internal/core/weekly"
)

// Severity buckets recognized on issue labels
const (
	sevCritical = "critical"
	sevHigh     = "high"
	sevMedium   = "medium"
	sevLow      = "low"
)

// defaultResolutionHours is assumed when closed issues carry no timing data
// fine enough to compute a real average for the week
const defaultResolutionHours = 36.0

// severityFromLabels maps a label set to one of the four severity buckets.
// Recognized spellings: "severity:critical", "severity-high", tracker
// prefixes like "bugzilla/severity-low", priority labels p0..p3, and a
// keyword fallback. Unlabeled issues count as medium
func severityFromLabels(labels []Label) string {
	for _, l := range labels {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		name = strings.ReplaceAll(name, "severity-", "severity:")

		if v, ok := strings.CutPrefix(name, "severity:"); ok {
			switch strings.TrimSpace(v) {
			case sevCritical, "blocker":
				return sevCritical
			case sevHigh, "major":
				return sevHigh
			case sevMedium, "normal":
				return sevMedium
			case sevLow, "minor", "trivial":
				return sevLow
			}
		}

		switch name {
		case "p0":
			return sevCritical
		case "p1":
			return sevHigh
		case "p2":
			return sevMedium
		case "p3":
			return sevLow
		}
	}

	// Keyword fallback scans the raw names once severity labels missed
	for _, l := range labels {
		name := strings.ToLower(l.Name)
		switch {
		case strings.Contains(name, "critical"), strings.Contains(name, "blocker"):
			return sevCritical
		case strings.Contains(name, "crash"), strings.Contains(name, "regression"):
			return sevHigh
		}
	}
	return sevMedium
}

// weekFloor truncates t to the Monday 00:00 UTC that starts its ISO week
func weekFloor(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	delta := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -delta)
}

type weekBucket struct {
	inflow     int
	outflow    int
	sevIn      map[string]int
	resHours   float64
	resSamples int
}

// Aggregate folds raw issues into one weekly record per calendar week.
// Weeks without activity between the first and last observed week are
// zero-filled so the series is contiguous, and the running backlog never
// drops below zero
func Aggregate(issues []Issue) []weekly.WeeklyRecord {
	if len(issues) == 0 {
		return nil
	}

	buckets := map[time.Time]*weekBucket{}
	at := func(w time.Time) *weekBucket {
		b, ok := buckets[w]
		if !ok {
			b = &weekBucket{sevIn: map[string]int{}}
			buckets[w] = b
		}
		return b
	}

	for _, it := range issues {
		in := weekFloor(it.CreatedAt)
		b := at(in)
		b.inflow++
		b.sevIn[severityFromLabels(it.Labels)]++

		if it.ClosedAt != nil {
			out := weekFloor(*it.ClosedAt)
			ob := at(out)
			ob.outflow++
			ob.resHours += it.ClosedAt.Sub(it.CreatedAt).Hours()
			ob.resSamples++
		}
	}

	weeks := make([]time.Time, 0, len(buckets))
	for w := range buckets {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	first, last := weeks[0], weeks[len(weeks)-1]
	var recs []weekly.WeeklyRecord
	backlog := 0
	for w := first; !w.After(last); w = w.AddDate(0, 0, 7) {
		b := buckets[w]
		if b == nil {
			b = &weekBucket{sevIn: map[string]int{}}
		}

		backlog += b.inflow - b.outflow
		if backlog < 0 {
			backlog = 0
		}

		avg := defaultResolutionHours
		if b.resSamples > 0 {
			avg = b.resHours / float64(b.resSamples)
		}

		recs = append(recs, weekly.WeeklyRecord{
			WeekStart:          w,
			InflowTotal:        b.inflow,
			OutflowTotal:       b.outflow,
			SeverityCriticalIn: b.sevIn[sevCritical],
			SeverityHighIn:     b.sevIn[sevHigh],
			SeverityMediumIn:   b.sevIn[sevMedium],
			SeverityLowIn:      b.sevIn[sevLow],
			AvgResolutionHours: avg,
			BacklogTotal:       backlog,
		})
	}
	return recs
}
