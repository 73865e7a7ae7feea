package domain

import (
	"context"

	"defectwatch/internal/core/pipeline"
	"defectwatch/internal/core/weekly"
)

// ServicePort defines the service contract for analysis runs
type ServicePort interface {
	// Analyze runs the full pipeline over wire records
	Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeOutput, error)

	// AnalyzeRecords runs the pipeline over already-parsed records with an
	// optional horizon override; used by the CLI path
	AnalyzeRecords(ctx context.Context, recs []weekly.WeeklyRecord, horizonOverride int) (pipeline.Bundle, error)
}
