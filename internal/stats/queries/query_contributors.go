package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

type contributorsQuery struct{}

func (q *contributorsQuery) Name() string { return stats.QueryContributors }

func (q *contributorsQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	contributors, ok := fetcher.CollectPages(ctx, run.Fetcher, func(ctx context.Context, opts github.ListOptions) ([]*github.Contributor, *github.Response, error) {
		return run.Fetcher.Client().Repositories.ListContributors(ctx, p.Owner(), p.RepoName(), &github.ListContributorsOptions{
			Anon:        "0", // anonymous contributors excluded
			ListOptions: opts,
		})
	})
	if !ok {
		return fmt.Errorf("list contributors for %s: no data", p.Repo)
	}

	rec.Contributors = len(contributors)
	return nil
}

func init() {
	stats.RegisterQuery(&contributorsQuery{})
}
