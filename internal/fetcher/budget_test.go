package fetcher

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestRequestBudget(t *testing.T) {
	fixedNow := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	getRemaining := func(t *testing.T, b *RequestBudget) int {
		t.Helper()
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.remaining
	}

	setState := func(t *testing.T, b *RequestBudget, remaining int, reset time.Time) {
		t.Helper()
		b.mu.Lock()
		b.remaining = remaining
		b.reset = reset
		b.mu.Unlock()
	}

	t.Run("Acquire decrements remaining", func(t *testing.T) {
		b := NewRequestBudget()
		b.now = func() time.Time { return fixedNow }

		before := getRemaining(t, b)
		if err := b.Acquire(context.Background(), 1); err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		if got := getRemaining(t, b); got != before-1 {
			t.Fatalf("remaining = %d, want %d", got, before-1)
		}
	})

	t.Run("UpdateFromResponse sets remaining and reset", func(t *testing.T) {
		b := NewRequestBudget()
		b.now = func() time.Time { return fixedNow }

		resp := &http.Response{Header: make(http.Header)}
		resp.Header.Set("X-RateLimit-Remaining", "10")
		resp.Header.Set("X-RateLimit-Reset", "1790000000")

		b.UpdateFromResponse(resp)

		if rem := getRemaining(t, b); rem != 10 {
			t.Fatalf("expected 10 remaining, got %d", rem)
		}
		b.mu.Lock()
		reset := b.reset
		b.mu.Unlock()
		if !reset.Equal(time.Unix(1790000000, 0)) {
			t.Fatalf("reset = %v", reset)
		}
	})

	t.Run("Retry-After causes cooldown blocking", func(t *testing.T) {
		b := NewRequestBudget()
		b.now = func() time.Time { return fixedNow }
		setState(t, b, 5000, fixedNow.Add(time.Hour))

		resp := &http.Response{Header: make(http.Header)}
		resp.Header.Set("Retry-After", "60")
		b.UpdateFromResponse(resp)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := b.Acquire(ctx, 1); err == nil {
			t.Fatal("expected context deadline exceeded during cooldown")
		}
	})

	t.Run("exhausted budget blocks until reset", func(t *testing.T) {
		b := NewRequestBudget()
		b.now = func() time.Time { return fixedNow }
		setState(t, b, 0, fixedNow.Add(time.Hour))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := b.Acquire(ctx, 1); err == nil {
			t.Fatal("expected blocked acquire to fail with deadline")
		}
	})

	t.Run("one probe allowed after reset passes", func(t *testing.T) {
		b := NewRequestBudget()
		b.now = func() time.Time { return fixedNow }
		setState(t, b, 0, fixedNow.Add(-time.Minute))

		if err := b.Acquire(context.Background(), 1); err != nil {
			t.Fatalf("probe acquire failed: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := b.Acquire(ctx, 1); err == nil {
			t.Fatal("second acquire should block until headers observed")
		}
	})

	t.Run("invalid n rejected", func(t *testing.T) {
		b := NewRequestBudget()
		if err := b.Acquire(context.Background(), 0); err == nil {
			t.Fatal("expected error for n=0")
		}
	})
}
