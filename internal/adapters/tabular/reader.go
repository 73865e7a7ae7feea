// Package tabular reads base measures from CSV and persists the analysis
// output tables, matching the flat file formats the pipeline trades in
package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"defectwatch/internal/core/weekly"
	perr "defectwatch/internal/platform/errors"
	"defectwatch/internal/platform/logger"
)

// base_measures.csv columns, in file order
var baseColumns = []string{
	"week_start",
	"defects_inflow_total",
	"defects_outflow_total",
	"severity_critical_in",
	"severity_high_in",
	"severity_medium_in",
	"severity_low_in",
	"avg_resolution_time_hours",
	"backlog_total",
}

const weekLayout = "2006-01-02"

// ReadRecords loads and validates the weekly base measures at path.
// Columns are matched by header name, so column order in the file is free.
// Soft data-quality findings are logged, hard validation failures returned
func ReadRecords(path string) ([]weekly.WeeklyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open base measures %s", path)
	}
	defer f.Close()

	recs, err := ParseRecords(f)
	if err != nil {
		return nil, perr.WithOp(err, "load_records")
	}
	return recs, nil
}

// ParseRecords decodes weekly records from CSV content
func ParseRecords(r io.Reader) ([]weekly.WeeklyRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, perr.Validationf("base measures file is empty")
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "read csv header")
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range baseColumns {
		if _, ok := idx[name]; !ok {
			return nil, perr.WithField(perr.Validationf("missing column %q", name), name)
		}
	}

	var recs []weekly.WeeklyRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "read csv row %d", line+1)
		}
		line++

		rec, err := parseRow(row, idx, line)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	warnings, err := weekly.ValidateSeries(recs)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Named("tabular").Warn().Msg(w)
	}
	return recs, nil
}

func parseRow(row []string, idx map[string]int, line int) (weekly.WeeklyRecord, error) {
	cell := func(name string) string { return row[idx[name]] }

	intCell := func(name string) (int, error) {
		v, err := strconv.Atoi(cell(name))
		if err != nil {
			return 0, perr.WithField(
				perr.Validationf("row %d: %s is not an integer: %q", line, name, cell(name)), name)
		}
		return v, nil
	}

	week, err := time.Parse(weekLayout, cell("week_start"))
	if err != nil {
		return weekly.WeeklyRecord{}, perr.WithField(
			perr.Validationf("row %d: week_start is not a date: %q", line, cell("week_start")), "week_start")
	}

	var rec weekly.WeeklyRecord
	rec.WeekStart = week

	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"defects_inflow_total", &rec.InflowTotal},
		{"defects_outflow_total", &rec.OutflowTotal},
		{"severity_critical_in", &rec.SeverityCriticalIn},
		{"severity_high_in", &rec.SeverityHighIn},
		{"severity_medium_in", &rec.SeverityMediumIn},
		{"severity_low_in", &rec.SeverityLowIn},
		{"backlog_total", &rec.BacklogTotal},
	} {
		v, err := intCell(f.name)
		if err != nil {
			return weekly.WeeklyRecord{}, err
		}
		*f.dst = v
	}

	hours, err := strconv.ParseFloat(cell("avg_resolution_time_hours"), 64)
	if err != nil {
		return weekly.WeeklyRecord{}, perr.WithField(
			perr.Validationf("row %d: avg_resolution_time_hours is not a number: %q",
				line, cell("avg_resolution_time_hours")),
			"avg_resolution_time_hours")
	}
	rec.AvgResolutionHours = hours

	return rec, nil
}
