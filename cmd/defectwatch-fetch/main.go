package main

import (
	"context"
	"flag"
	"time"

	"defectwatch/internal/adapters/ingest/github"
	"defectwatch/internal/adapters/tabular"
	"defectwatch/internal/platform/config"
	"defectwatch/internal/platform/logger"
)

const dayLayout = "2006-01-02"

func main() {
	var (
		repo     = flag.String("repo", "", "owner/name of the repository to fetch")
		sinceStr = flag.String("since", "", "inclusive start date YYYY-MM-DD, default 26 weeks ago")
		untilStr = flag.String("until", "", "inclusive end date YYYY-MM-DD, default today")
		out      = flag.String("out", "base_measures.csv", "output CSV path")
		tokens   = flag.String("tokens", "", "comma separated GitHub tokens, env FETCH_GITHUB_TOKENS when empty")
	)
	flag.Parse()

	l := logger.Get()
	if *repo == "" {
		l.Fatal().Msg("missing -repo owner/name")
	}

	now := time.Now().UTC()
	until := now
	if *untilStr != "" {
		t, err := time.Parse(dayLayout, *untilStr)
		if err != nil {
			l.Fatal().Err(err).Str("until", *untilStr).Msg("invalid -until date")
		}
		until = t.Add(24*time.Hour - time.Second)
	}
	since := until.AddDate(0, 0, -26*7)
	if *sinceStr != "" {
		t, err := time.Parse(dayLayout, *sinceStr)
		if err != nil {
			l.Fatal().Err(err).Str("since", *sinceStr).Msg("invalid -since date")
		}
		since = t
	}
	if !since.Before(until) {
		l.Fatal().Time("since", since).Time("until", until).Msg("-since must precede -until")
	}

	toks := *tokens
	if toks == "" {
		toks = config.New().Prefix("FETCH_GITHUB_").MayString("TOKENS", "")
	}

	client := github.NewClient(github.Options{TokensCSV: toks})

	ctx := context.Background()
	issues, err := client.ListIssues(ctx, *repo, since, until)
	if err != nil {
		l.Fatal().Err(err).Str("repo", *repo).Msg("github fetch failed")
	}
	if len(issues) == 0 {
		l.Fatal().Str("repo", *repo).Msg("no issues in the requested window")
	}

	recs := github.Aggregate(issues)
	if err := tabular.WriteRecords(*out, recs); err != nil {
		l.Fatal().Err(err).Str("path", *out).Msg("write base measures failed")
	}

	l.Info().
		Str("repo", *repo).
		Int("issues", len(issues)).
		Int("weeks", len(recs)).
		Str("out", *out).
		Msg("fetch complete")
}
