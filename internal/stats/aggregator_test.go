package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"provdash/internal/fetcher"
	"provdash/internal/registry"
)

type fakeQuery struct {
	name    string
	collect func(ctx context.Context, run *Run, p registry.Provider, rec *Record) error
}

func (q *fakeQuery) Name() string { return q.name }

func (q *fakeQuery) Collect(ctx context.Context, run *Run, p registry.Provider, rec *Record) error {
	return q.collect(ctx, run, p, rec)
}

func testProviders() []registry.Provider {
	return []registry.Provider{
		{Repo: "org/alpha", Domain: "alpha", Type: "music_provider"},
		{Repo: "org/beta", Domain: "beta", Type: "player_provider"},
	}
}

func newTestAggregator(t *testing.T, queries []Query) *Aggregator {
	t.Helper()
	f := fetcher.New(nil, fetcher.NewRequestBudget(), fetcher.DefaultRetryPolicy())
	a, err := NewAggregator(f, AggregatorParams{Queries: queries, Concurrency: 4})
	if err != nil {
		t.Fatalf("NewAggregator failed: %v", err)
	}
	return a
}

func TestAggregatorCollect(t *testing.T) {
	t.Run("records preserve registry order", func(t *testing.T) {
		q := &fakeQuery{name: "q", collect: func(ctx context.Context, run *Run, p registry.Provider, rec *Record) error {
			rec.PROpen = len(p.Domain)
			return nil
		}}
		a := newTestAggregator(t, []Query{q})

		snap, err := a.Collect(context.Background(), testProviders())
		if err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		if len(snap.Records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(snap.Records))
		}
		if snap.Records[0].Repo != "org/alpha" || snap.Records[1].Repo != "org/beta" {
			t.Fatalf("order not preserved: %s, %s", snap.Records[0].Repo, snap.Records[1].Repo)
		}
		if snap.Records[0].PROpen != 5 || snap.Records[1].PROpen != 4 {
			t.Fatalf("query results not applied: %+v", snap.Records)
		}
		if snap.GeneratedAt.IsZero() {
			t.Fatal("GeneratedAt not set")
		}
	})

	t.Run("failing sub-queries leave defaults and never fail the run", func(t *testing.T) {
		ok := &fakeQuery{name: "works", collect: func(ctx context.Context, run *Run, p registry.Provider, rec *Record) error {
			rec.Contributors = 7
			return nil
		}}
		bad := &fakeQuery{name: "fails", collect: func(ctx context.Context, run *Run, p registry.Provider, rec *Record) error {
			return errors.New("transport error")
		}}
		a := newTestAggregator(t, []Query{ok, bad})

		var mu sync.Mutex
		errsByRepo := make(map[string]map[string]error)
		a.OnProviderDone = func(res ProviderResult) {
			mu.Lock()
			defer mu.Unlock()
			errsByRepo[res.Provider.Repo] = res.Errs
		}

		snap, err := a.Collect(context.Background(), testProviders())
		if err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		for _, rec := range snap.Records {
			if rec.Contributors != 7 {
				t.Errorf("%s: working query did not apply", rec.Repo)
			}
			if rec.PROpen != 0 || rec.CIStatus != nil {
				t.Errorf("%s: failed query fields should stay at defaults", rec.Repo)
			}
		}
		for repo, errs := range errsByRepo {
			if errs["fails"] == nil {
				t.Errorf("%s: expected recorded error for failing query", repo)
			}
		}
	})

	t.Run("every sub-query failing still yields a complete default record", func(t *testing.T) {
		bad := &fakeQuery{name: "fails", collect: func(ctx context.Context, run *Run, p registry.Provider, rec *Record) error {
			return errors.New("no data")
		}}
		a := newTestAggregator(t, []Query{bad})

		snap, err := a.Collect(context.Background(), testProviders())
		if err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		if len(snap.Records) != 2 {
			t.Fatalf("expected a record per provider, got %d", len(snap.Records))
		}
		rec := snap.Records[0]
		want := NewRecord(testProviders()[0])
		if *rec != *want {
			t.Fatalf("record diverged from defaults:\n got %+v\nwant %+v", rec, want)
		}
	})

	t.Run("panicking query degrades to defaults", func(t *testing.T) {
		boom := &fakeQuery{name: "boom", collect: func(ctx context.Context, run *Run, p registry.Provider, rec *Record) error {
			panic("unexpected")
		}}
		calm := &fakeQuery{name: "calm", collect: func(ctx context.Context, run *Run, p registry.Provider, rec *Record) error {
			rec.Commits30d = 3
			return nil
		}}
		a := newTestAggregator(t, []Query{boom, calm})

		snap, err := a.Collect(context.Background(), testProviders())
		if err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		if snap.Records[0].Commits30d != 3 {
			t.Error("panic in one query blocked another")
		}
	})

	t.Run("window anchored to run timestamp", func(t *testing.T) {
		var gotSince time.Time
		var mu sync.Mutex
		q := &fakeQuery{name: "q", collect: func(ctx context.Context, run *Run, p registry.Provider, rec *Record) error {
			mu.Lock()
			defer mu.Unlock()
			gotSince = run.Since()
			return nil
		}}
		a := newTestAggregator(t, []Query{q})

		snap, err := a.Collect(context.Background(), testProviders()[:1])
		if err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		want := snap.GeneratedAt.Add(-30 * 24 * time.Hour)
		if !gotSince.Equal(want) {
			t.Fatalf("window start = %v, want %v", gotSince, want)
		}
	})

	t.Run("empty provider list is an error", func(t *testing.T) {
		a := newTestAggregator(t, []Query{&fakeQuery{name: "q", collect: func(ctx context.Context, run *Run, p registry.Provider, rec *Record) error { return nil }}})
		if _, err := a.Collect(context.Background(), nil); err == nil {
			t.Fatal("expected error for empty provider list")
		}
	})
}

func TestNewAggregator(t *testing.T) {
	t.Run("nil fetcher rejected", func(t *testing.T) {
		if _, err := NewAggregator(nil, AggregatorParams{}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestNewRecordDefaults(t *testing.T) {
	p := registry.Provider{Repo: "o/r", Domain: "r", Type: "music_provider", DisplayName: "R"}
	rec := NewRecord(p)
	if rec.Repo != "o/r" || rec.Name != "R" || rec.Type != "music_provider" {
		t.Fatalf("identity fields wrong: %+v", rec)
	}
	if rec.PROpen != 0 || rec.CodeSizeKB != 0 {
		t.Fatal("numeric defaults must be zero")
	}
	if rec.CIStatus != nil || rec.CIDate != nil || rec.LastRelease != nil ||
		rec.LastReleaseDate != nil || rec.LastCommit != nil {
		t.Fatal("optional fields must default to absent")
	}
}
