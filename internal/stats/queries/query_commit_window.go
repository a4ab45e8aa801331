package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

type commitWindowQuery struct{}

func (q *commitWindowQuery) Name() string { return stats.QueryCommitWindow }

func (q *commitWindowQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	commits, ok := fetcher.CollectPages(ctx, run.Fetcher, func(ctx context.Context, opts github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
		return run.Fetcher.Client().Repositories.ListCommits(ctx, p.Owner(), p.RepoName(), &github.CommitsListOptions{
			Since:       run.Since(),
			ListOptions: opts,
		})
	})
	if !ok {
		return fmt.Errorf("list commits since window start for %s: no data", p.Repo)
	}

	rec.Commits30d = len(commits)
	return nil
}

func init() {
	stats.RegisterQuery(&commitWindowQuery{})
}
