package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

type openPullsQuery struct{}

func (q *openPullsQuery) Name() string { return stats.QueryOpenPulls }

func (q *openPullsQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	pulls, ok := fetcher.CollectPages(ctx, run.Fetcher, func(ctx context.Context, opts github.ListOptions) ([]*github.PullRequest, *github.Response, error) {
		return run.Fetcher.Client().PullRequests.List(ctx, p.Owner(), p.RepoName(), &github.PullRequestListOptions{
			State:       "open",
			ListOptions: opts,
		})
	})
	if !ok {
		return fmt.Errorf("list open pulls for %s: no data", p.Repo)
	}

	rec.PROpen = len(pulls)
	for _, pr := range pulls {
		if pr.GetDraft() {
			rec.PRDraft++
		}
	}
	return nil
}

func init() {
	stats.RegisterQuery(&openPullsQuery{})
}
