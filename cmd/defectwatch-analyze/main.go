package main

import (
	"context"
	"flag"
	"path/filepath"

	"defectwatch/internal/adapters/tabular"
	"defectwatch/internal/config"
	"defectwatch/internal/platform/logger"
	svc "defectwatch/internal/services/analysis/service"
)

func main() {
	var (
		dataPath = flag.String("data", "base_measures.csv", "weekly base measures CSV")
		cfgPath  = flag.String("config", "", "analysis model YAML, built-in defaults when empty")
		horizon  = flag.Int("horizon", 0, "forecast horizon override in weeks, 0 keeps the configured value")
		outDir   = flag.String("outdir", "out", "directory for the output tables")
	)
	flag.Parse()

	l := logger.Get()

	model := config.Default()
	if *cfgPath != "" {
		m, err := config.Load(*cfgPath)
		if err != nil {
			l.Fatal().Err(err).Str("path", *cfgPath).Msg("analysis config invalid")
		}
		model = *m
	} else if err := model.Validate(); err != nil {
		l.Fatal().Err(err).Msg("default analysis config invalid")
	}

	recs, err := tabular.ReadRecords(*dataPath)
	if err != nil {
		l.Fatal().Err(err).Str("path", *dataPath).Msg("base measures rejected")
	}

	b, err := svc.New(&model).AnalyzeRecords(context.Background(), recs, *horizon)
	if err != nil {
		l.Fatal().Err(err).Msg("analysis run failed")
	}

	if err := (tabular.Sink{Dir: *outDir}).Persist(b); err != nil {
		l.Fatal().Err(err).Str("dir", *outDir).Msg("persist failed")
	}

	l.Info().
		Str("run_id", b.RunID).
		Int("weeks", len(b.Derived)).
		Str("derived", filepath.Join(*outDir, tabular.DerivedFile)).
		Str("indicators", filepath.Join(*outDir, tabular.IndicatorFile)).
		Str("plan", filepath.Join(*outDir, tabular.ForecastFile)).
		Msg("analysis complete")
}
