package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RequestBudget tracks the primary GitHub rate limit. Every API call acquires
// one unit before issuing the request and feeds the response headers back in,
// so all in-flight sub-queries share one view of the remaining quota.
type RequestBudget struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	now       func() time.Time
	probed    bool
	cooldown  time.Time
	notifyCh  chan struct{}
}

func NewRequestBudget() *RequestBudget {
	return &RequestBudget{
		remaining: 5000, // Default conservative start
		reset:     time.Now().Add(1 * time.Hour),
		now:       time.Now,
		notifyCh:  make(chan struct{}),
	}
}

func (b *RequestBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Acquire blocks until n units of budget are available, the cooldown passes,
// or ctx is done.
func (b *RequestBudget) Acquire(ctx context.Context, n int) error {
	if ctx == nil {
		return fmt.Errorf("Acquire: nil context")
	}
	if n <= 0 {
		return fmt.Errorf("Acquire: n must be > 0 (got %d)", n)
	}
	for i := 0; i < n; i++ {
		if err := b.acquireOne(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *RequestBudget) acquireOne(ctx context.Context) error {
	for {
		b.mu.Lock()
		now := b.now()

		if now.Before(b.cooldown) {
			until := b.cooldown
			ch := b.notifyCh
			b.mu.Unlock()
			if err := waitUntil(ctx, now, until, ch); err != nil {
				return err
			}
			continue
		}

		if b.remaining > 0 {
			b.remaining--
			b.mu.Unlock()
			return nil
		}

		// If the reset time has passed but we haven't observed refreshed
		// headers yet, allow exactly one probe request and then block until
		// UpdateFromResponse reports back.
		if !now.Before(b.reset) {
			if !b.probed {
				b.probed = true
				b.mu.Unlock()
				return nil
			}
			ch := b.notifyCh
			b.mu.Unlock()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ch:
				continue
			}
		}

		reset := b.reset
		ch := b.notifyCh
		b.mu.Unlock()
		if err := waitUntil(ctx, now, reset, ch); err != nil {
			return err
		}
	}
}

// waitUntil sleeps until the deadline, a budget-change notification, or ctx
// cancellation, whichever comes first.
func waitUntil(ctx context.Context, now, until time.Time, notify <-chan struct{}) error {
	wait := until.Sub(now)
	if wait < 0 {
		wait = 0
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-notify:
		return nil
	case <-timer.C:
		return nil
	}
}

func (b *RequestBudget) signalLocked() {
	close(b.notifyCh)
	b.notifyCh = make(chan struct{})
}

// UpdateFromResponse refreshes the budget from rate-limit response headers.
func (b *RequestBudget) UpdateFromResponse(resp *http.Response) {
	if b == nil || resp == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	changed := false

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			until := b.now().Add(time.Duration(seconds) * time.Second)
			if until.After(b.cooldown) {
				b.cooldown = until
				changed = true
			}
		}
	}

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil && val >= 0 && b.remaining != val {
			b.remaining = val
			changed = true
		}
	}

	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil && val > 0 {
			newReset := time.Unix(val, 0)
			if !b.reset.Equal(newReset) {
				b.reset = newReset
				changed = true
			}
		}
	}

	if changed {
		b.probed = false
		b.signalLocked()
	}
}
