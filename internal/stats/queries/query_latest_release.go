package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

type latestReleaseQuery struct{}

func (q *latestReleaseQuery) Name() string { return stats.QueryLatestRelease }

// Collect records the latest release tag and publish time. Repositories
// without releases 404 on this endpoint; that degrades to explicit absence.
func (q *latestReleaseQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	rel, ok := fetcher.FetchSingle(ctx, run.Fetcher, func(ctx context.Context) (*github.RepositoryRelease, *github.Response, error) {
		return run.Fetcher.Client().Repositories.GetLatestRelease(ctx, p.Owner(), p.RepoName())
	})
	if !ok {
		return fmt.Errorf("latest release for %s: no data", p.Repo)
	}
	if rel == nil || rel.TagName == nil {
		return nil
	}

	tag := rel.GetTagName()
	rec.LastRelease = &tag
	if rel.PublishedAt != nil {
		t := rel.GetPublishedAt().Time
		rec.LastReleaseDate = &t
	}
	return nil
}

func init() {
	stats.RegisterQuery(&latestReleaseQuery{})
}
