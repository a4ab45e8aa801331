package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

// codeFrequencyWeeks is how many trailing weekly entries contribute to the
// additions/deletions sums. Matches the 30-day commit window.
const codeFrequencyWeeks = 4

type codeFrequencyQuery struct{}

func (q *codeFrequencyQuery) Name() string { return stats.QueryCodeFrequency }

// Collect sums line churn over the trailing weeks of the code-frequency
// series. GitHub computes this statistic asynchronously, so the fetch goes
// through the deferred-computation retry path.
func (q *codeFrequencyQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	weeks, ok := fetcher.FetchSingle(ctx, run.Fetcher, func(ctx context.Context) ([]*github.WeeklyStats, *github.Response, error) {
		return run.Fetcher.Client().Repositories.ListCodeFrequency(ctx, p.Owner(), p.RepoName())
	})
	if !ok {
		return fmt.Errorf("code frequency for %s: no data", p.Repo)
	}

	rec.Additions30d, rec.Deletions30d = churnWindow(weeks, codeFrequencyWeeks)
	return nil
}

func init() {
	stats.RegisterQuery(&codeFrequencyQuery{})
}
