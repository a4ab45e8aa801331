package stats

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
)

// Sub-query names. Used for registration, verbose diagnostics, and tests.
const (
	QueryOpenPulls     = "pulls.open"
	QueryClosedPulls   = "pulls.closed"
	QueryOpenIssues    = "issues.open"
	QueryCIStatus      = "ci.latest_run"
	QueryLatestRelease = "release.latest"
	QueryCommitWindow  = "commits.window"
	QueryLastCommit    = "commits.latest"
	QueryContributors  = "contributors.count"
	QueryCodeFrequency = "stats.code_frequency"
	QuerySourceTree    = "tree.sources"
)

// Run carries the per-run inputs shared by every sub-query: the fetch layer,
// the run timestamp that anchors every trailing window, and the fixed policy
// knobs. Queries must compute windows against Now, never against wall-clock
// time at use time.
type Run struct {
	Fetcher *fetcher.Fetcher
	Now     time.Time

	// Window is the trailing lookback for merges and commits.
	Window time.Duration

	// WorkflowFile is the Actions workflow whose latest run is the CI status.
	WorkflowFile string

	// SourceExt is the file extension counted by the source-tree sub-query.
	SourceExt string
}

// Since returns the start of the trailing window.
func (r *Run) Since() time.Time {
	return r.Now.Add(-r.Window)
}

// Query is one independent sub-query. Collect writes into its own disjoint
// subset of the record's fields and returns an error only for diagnostics:
// the fields it owns simply keep their defaults on failure, and no error
// ever aborts the run.
type Query interface {
	Name() string
	Collect(ctx context.Context, run *Run, p registry.Provider, rec *Record) error
}

var (
	queryRegistry = make(map[string]Query)
	queryMu       sync.RWMutex
)

// RegisterQuery adds a sub-query to the run set. Called from init() in the
// queries package; the entrypoint blank-imports that package.
func RegisterQuery(q Query) {
	if q == nil {
		panic("query is nil")
	}
	name := q.Name()
	if name == "" {
		panic("query name is empty")
	}

	queryMu.Lock()
	defer queryMu.Unlock()
	if _, exists := queryRegistry[name]; exists {
		panic(fmt.Sprintf("query %s already registered", name))
	}
	queryRegistry[name] = q
}

// Queries returns all registered sub-queries in stable name order.
func Queries() []Query {
	queryMu.RLock()
	defer queryMu.RUnlock()

	all := make([]Query, 0, len(queryRegistry))
	for _, q := range queryRegistry {
		all = append(all, q)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}
