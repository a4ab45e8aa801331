package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

type openIssuesQuery struct{}

func (q *openIssuesQuery) Name() string { return stats.QueryOpenIssues }

// Collect counts open issues and tallies their labels. The issues endpoint
// returns pull requests too, so PR-linked entries are filtered out first.
func (q *openIssuesQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	issues, ok := fetcher.CollectPages(ctx, run.Fetcher, func(ctx context.Context, opts github.ListOptions) ([]*github.Issue, *github.Response, error) {
		return run.Fetcher.Client().Issues.ListByRepo(ctx, p.Owner(), p.RepoName(), &github.IssueListByRepoOptions{
			State:       "open",
			ListOptions: opts,
		})
	})
	if !ok {
		return fmt.Errorf("list open issues for %s: no data", p.Repo)
	}

	open, counts := tallyLabels(issues)
	rec.IssuesOpen = open
	rec.Bugs = counts[labelBug]
	rec.Enhancements = counts[labelEnhancement]
	rec.Incidents = counts[labelIncident]
	return nil
}

func init() {
	stats.RegisterQuery(&openIssuesQuery{})
}
