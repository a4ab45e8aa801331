// Package fetcher provides the two access modes every sub-query is built
// from: a paginated list fetch that transparently concatenates pages, and a
// single-resource fetch that retries through GitHub's deferred-computation
// (HTTP 202) responses.
//
// Both modes share one contract: they return the data plus an ok flag, and
// they never let an error escape past their boundary. A timeout, a non-2xx
// status, a malformed payload, or an exhausted retry budget all degrade to
// "no data" for that one sub-query, which is what lets the aggregator
// assemble a complete record from a partially-failing set of sub-queries.
package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/google/go-github/v81/github"

	gh "provdash/internal/github"
)

// RetryPolicy bounds the deferred-computation retry loop.
type RetryPolicy struct {
	// Attempts is the total attempt budget, including the first request.
	Attempts int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: 5 * time.Second}
}

type Fetcher struct {
	client *gh.Client
	budget *RequestBudget
	retry  RetryPolicy

	// sleep is a test seam; defaults to a ctx-aware timer sleep.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(client *gh.Client, budget *RequestBudget, retry RetryPolicy) *Fetcher {
	if retry.Attempts <= 0 {
		retry = DefaultRetryPolicy()
	}
	return &Fetcher{
		client: client,
		budget: budget,
		retry:  retry,
		sleep:  sleepCtx,
	}
}

// Client returns the underlying go-github client.
func (f *Fetcher) Client() *github.Client {
	return f.client.Client
}

func (f *Fetcher) Budget() *RequestBudget {
	return f.budget
}

func (f *Fetcher) Retry() RetryPolicy {
	return f.retry
}

// ListPage issues one page of a paginated list call.
type ListPage[T any] func(ctx context.Context, opts github.ListOptions) ([]T, *github.Response, error)

// CollectPages follows pagination until the last page and returns the
// concatenated, order-preserving sequence. Any transport error yields
// (nil, false) rather than a partial result.
func CollectPages[T any](ctx context.Context, f *Fetcher, fetch ListPage[T]) ([]T, bool) {
	opts := github.ListOptions{PerPage: 100}
	var all []T
	for {
		if err := f.budget.Acquire(ctx, 1); err != nil {
			return nil, false
		}
		items, resp, err := fetch(ctx, opts)
		if resp != nil {
			f.budget.UpdateFromResponse(resp.Response)
		}
		if err != nil {
			return nil, false
		}
		all = append(all, items...)
		if resp == nil || resp.NextPage == 0 {
			return all, true
		}
		opts.Page = resp.NextPage
	}
}

// SingleFetch issues one single-resource call.
type SingleFetch[T any] func(ctx context.Context) (T, *github.Response, error)

// FetchSingle fetches a single resource, retrying while GitHub reports the
// value as accepted-but-not-computed (202). The attempt budget includes the
// first request; exhausting it, or any other error class, yields
// (zero, false).
func FetchSingle[T any](ctx context.Context, f *Fetcher, fetch SingleFetch[T]) (T, bool) {
	var zero T
	for attempt := 1; ; attempt++ {
		if err := f.budget.Acquire(ctx, 1); err != nil {
			return zero, false
		}
		val, resp, err := fetch(ctx)
		if resp != nil {
			f.budget.UpdateFromResponse(resp.Response)
		}
		if err == nil {
			return val, true
		}
		var accepted *github.AcceptedError
		if !errors.As(err, &accepted) {
			return zero, false
		}
		if attempt >= f.retry.Attempts {
			return zero, false
		}
		if err := f.sleep(ctx, f.retry.Delay); err != nil {
			return zero, false
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
