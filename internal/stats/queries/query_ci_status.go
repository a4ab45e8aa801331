package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

type ciStatusQuery struct{}

func (q *ciStatusQuery) Name() string { return stats.QueryCIStatus }

// Collect records the outcome of the latest run of the tracked workflow.
// The conclusion is preferred; a run that hasn't concluded reports its
// status instead. Providers flagged as CI-skipped are not queried at all and
// get the "n/a" sentinel, which renders differently from an unknown status.
func (q *ciStatusQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	if p.CISkipped() {
		na := stats.StatusNotApplicable
		rec.CIStatus = &na
		return nil
	}

	runs, ok := fetcher.FetchSingle(ctx, run.Fetcher, func(ctx context.Context) (*github.WorkflowRuns, *github.Response, error) {
		return run.Fetcher.Client().Actions.ListWorkflowRunsByFileName(ctx, p.Owner(), p.RepoName(), run.WorkflowFile, &github.ListWorkflowRunsOptions{
			ListOptions: github.ListOptions{PerPage: 1},
		})
	})
	if !ok {
		return fmt.Errorf("latest workflow run for %s: no data", p.Repo)
	}
	if runs == nil || len(runs.WorkflowRuns) == 0 {
		// Workflow exists but has never run; status stays absent.
		return nil
	}

	latest := runs.WorkflowRuns[0]
	status := latest.GetConclusion()
	if status == "" {
		status = latest.GetStatus()
	}
	if status != "" {
		rec.CIStatus = &status
	}
	if latest.UpdatedAt != nil {
		t := latest.GetUpdatedAt().Time
		rec.CIDate = &t
	}
	return nil
}

func init() {
	stats.RegisterQuery(&ciStatusQuery{})
}
