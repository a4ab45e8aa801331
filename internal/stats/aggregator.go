package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
)

// ProviderResult reports one completed provider to the progress callback.
type ProviderResult struct {
	Provider registry.Provider
	Record   *Record
	// Errs maps sub-query name to its failure, for verbose diagnostics.
	// Failed sub-queries leave their record fields at the defaults.
	Errs map[string]error
}

// Aggregator fans the registered sub-queries out over every provider and
// fans the partial results back into one Record per provider.
//
// The unit of concurrency is the (provider × sub-query) pair: sub-queries
// are mutually independent and a retry sleeping through a 202 response never
// blocks unrelated work. A shared weighted semaphore caps in-flight
// sub-queries across the whole run to respect API rate limits.
type Aggregator struct {
	fetcher      *fetcher.Fetcher
	queries      []Query
	sem          *semaphore.Weighted
	queryTimeout time.Duration
	run          Run

	// OnProviderDone, if set, is called once per provider as its record
	// becomes final. Calls may arrive in any order.
	OnProviderDone func(ProviderResult)
}

// AggregatorParams configures NewAggregator. Zero values pick the defaults
// from config.New().
type AggregatorParams struct {
	Concurrency  int
	QueryTimeout time.Duration
	Window       time.Duration
	WorkflowFile string
	SourceExt    string
	// Queries overrides the registered query set (tests).
	Queries []Query
}

func NewAggregator(f *fetcher.Fetcher, params AggregatorParams) (*Aggregator, error) {
	if f == nil {
		return nil, errors.New("fetcher is nil")
	}
	if params.Concurrency <= 0 {
		params.Concurrency = 5
	}
	if params.QueryTimeout <= 0 {
		params.QueryTimeout = 30 * time.Second
	}
	if params.Window <= 0 {
		params.Window = 30 * 24 * time.Hour
	}
	if params.WorkflowFile == "" {
		params.WorkflowFile = "test.yml"
	}
	if params.SourceExt == "" {
		params.SourceExt = ".py"
	}
	queries := params.Queries
	if queries == nil {
		queries = Queries()
	}
	if len(queries) == 0 {
		return nil, errors.New("no sub-queries registered")
	}

	return &Aggregator{
		fetcher:      f,
		queries:      queries,
		sem:          semaphore.NewWeighted(int64(params.Concurrency)),
		queryTimeout: params.QueryTimeout,
		run: Run{
			Fetcher:      f,
			Window:       params.Window,
			WorkflowFile: params.WorkflowFile,
			SourceExt:    params.SourceExt,
		},
	}, nil
}

// Collect builds the snapshot for the given providers. The record list
// preserves registry order regardless of completion order. Collect returns
// an error only when the provider list is empty or the context is canceled
// before the snapshot is complete; sub-query failures degrade to default
// field values and never propagate.
func (a *Aggregator) Collect(ctx context.Context, providers []registry.Provider) (*Snapshot, error) {
	if len(providers) == 0 {
		return nil, errors.New("no providers to collect")
	}

	run := a.run
	run.Now = time.Now().UTC()

	records := make([]*Record, len(providers))
	var eg errgroup.Group
	for i, p := range providers {
		records[i] = NewRecord(p)
		eg.Go(func() error {
			a.collectProvider(ctx, &run, p, records[i])
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Snapshot{GeneratedAt: run.Now, Records: records}, nil
}

// collectProvider runs every sub-query for one provider. The record is
// considered final only after all of them complete; a panic anywhere in the
// provider's collection leaves a default record rather than aborting the run.
func (a *Aggregator) collectProvider(ctx context.Context, run *Run, p registry.Provider, rec *Record) {
	errs := make([]error, len(a.queries))

	defer func() {
		if r := recover(); r != nil {
			// One bad provider never aborts the run: publish the defaults.
			*rec = *NewRecord(p)
			a.notify(p, rec, map[string]error{"collect": fmt.Errorf("panic: %v", r)})
		}
	}()

	var eg errgroup.Group
	for i, q := range a.queries {
		eg.Go(func() error {
			if err := a.sem.Acquire(ctx, 1); err != nil {
				errs[i] = err
				return nil
			}
			defer a.sem.Release(1)
			errs[i] = a.runQuery(ctx, run, q, p, rec)
			return nil
		})
	}
	_ = eg.Wait()

	byName := make(map[string]error)
	for i, err := range errs {
		if err != nil {
			byName[a.queries[i].Name()] = err
		}
	}
	a.notify(p, rec, byName)
}

func (a *Aggregator) runQuery(ctx context.Context, run *Run, q Query, p registry.Provider, rec *Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", q.Name(), r)
		}
	}()

	qctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()
	return q.Collect(qctx, run, p, rec)
}

func (a *Aggregator) notify(p registry.Provider, rec *Record, errs map[string]error) {
	if a.OnProviderDone != nil {
		a.OnProviderDone(ProviderResult{Provider: p, Record: rec, Errs: errs})
	}
}
