package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

type lastCommitQuery struct{}

func (q *lastCommitQuery) Name() string { return stats.QueryLastCommit }

func (q *lastCommitQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	commits, ok := fetcher.FetchSingle(ctx, run.Fetcher, func(ctx context.Context) ([]*github.RepositoryCommit, *github.Response, error) {
		return run.Fetcher.Client().Repositories.ListCommits(ctx, p.Owner(), p.RepoName(), &github.CommitsListOptions{
			ListOptions: github.ListOptions{PerPage: 1},
		})
	})
	if !ok {
		return fmt.Errorf("latest commit for %s: no data", p.Repo)
	}
	if len(commits) == 0 {
		return nil
	}

	rec.LastCommit = lastCommitTime(commits[0])
	return nil
}

func init() {
	stats.RegisterQuery(&lastCommitQuery{})
}
