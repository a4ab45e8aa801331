package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

type closedPullsQuery struct{}

func (q *closedPullsQuery) Name() string { return stats.QueryClosedPulls }

func (q *closedPullsQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	pulls, ok := fetcher.CollectPages(ctx, run.Fetcher, func(ctx context.Context, opts github.ListOptions) ([]*github.PullRequest, *github.Response, error) {
		return run.Fetcher.Client().PullRequests.List(ctx, p.Owner(), p.RepoName(), &github.PullRequestListOptions{
			State:       "closed",
			ListOptions: opts,
		})
	})
	if !ok {
		return fmt.Errorf("list closed pulls for %s: no data", p.Repo)
	}

	rec.PRMerged30d = countMergedSince(pulls, run.Since())
	return nil
}

func init() {
	stats.RegisterQuery(&closedPullsQuery{})
}
