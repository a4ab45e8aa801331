package queries

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

type sourceTreeQuery struct{}

func (q *sourceTreeQuery) Name() string { return stats.QuerySourceTree }

// Collect inventories the repository's source files from the recursive git
// tree of HEAD: blob entries with the tracked extension, counted and sized.
func (q *sourceTreeQuery) Collect(ctx context.Context, run *stats.Run, p registry.Provider, rec *stats.Record) error {
	tree, ok := fetcher.FetchSingle(ctx, run.Fetcher, func(ctx context.Context) (*github.Tree, *github.Response, error) {
		return run.Fetcher.Client().Git.GetTree(ctx, p.Owner(), p.RepoName(), "HEAD", true)
	})
	if !ok {
		return fmt.Errorf("source tree for %s: no data", p.Repo)
	}
	if tree == nil {
		return nil
	}

	rec.SourceFiles, rec.CodeSizeKB = measureTree(tree.Entries, run.SourceExt)
	return nil
}

func init() {
	stats.RegisterQuery(&sourceTreeQuery{})
}
