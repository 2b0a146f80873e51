package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"domainctl/pkg/certprovider"
	"domainctl/pkg/logger"
)

var _ certprovider.Limiter = (*RateLimiter)(nil)

// RateLimiter keeps concurrent certificate provider calls from all workers
// inside the upstream rate-limit budget while allowing maximal concurrency
// when budget remains.
//
// # Rate limiting overview
//
// The limiter tracks the last known upstream rate-limit status (lastStatus)
// and the number of requests currently in flight (inFlight). Reserve
// "reserves" a slot from the current budget. The effective remaining budget is
// computed as:
//
//	remaining := lastStatus.Remaining
//	if now > lastStatus.ResetAt { remaining = lastStatus.Limit }
//
// A request may start if remaining - inFlight > 0. When no budget is left,
// Reserve waits until either ResetAt is reached or another in-flight request
// finishes. Waiters take the wake channel under the lock and Release closes it,
// so every waiter re-checks the budget and none misses a release.
//
// Release is called after every request with the status parsed from the
// response. It decrements inFlight, wakes the waiters and merges the status:
// a new ResetAt is always adopted, otherwise Remaining is only replaced when
// it decreases.
//
// Bootstrap: before any response was seen, a synthetic status with Limit=1,
// Remaining=1 and a far-future ResetAt lets exactly one first request through.
// If that response carries no rate-limit headers the upstream publishes no
// budget and the limiter stops limiting until a response reports one.
type RateLimiter struct {
	mu         sync.Mutex
	inFlight   int
	lastStatus *certprovider.RateLimitStatus
	// bootstrap is set while lastStatus is the synthetic first-request status.
	bootstrap bool
	// unlimited is set once the upstream answered without rate-limit headers.
	unlimited bool
	wake      chan struct{}
	now       func() time.Time
}

// NewRateLimiter creates a limiter with no budget knowledge yet.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		wake: make(chan struct{}),
		now:  time.Now,
	}
}

// Reserve blocks until a request may start or ctx is done.
func (r *RateLimiter) Reserve(ctx context.Context) error {
	for {
		r.mu.Lock()

		if r.unlimited {
			r.inFlight++
			r.mu.Unlock()

			return nil
		}

		if r.lastStatus == nil {
			r.lastStatus = &certprovider.RateLimitStatus{
				Limit:     1,
				Remaining: 1,
				ResetAt:   r.now().Add(365 * 24 * time.Hour),
			}
			r.bootstrap = true
		}

		remaining := r.lastStatus.Remaining
		if r.now().After(r.lastStatus.ResetAt) {
			remaining = r.lastStatus.Limit
		}

		if remaining-r.inFlight > 0 {
			logger.Debug(ctx, "reserved rate limit slot",
				zap.Int("remaining", remaining),
				zap.Int("limit", r.lastStatus.Limit),
				zap.Time("resetAt", r.lastStatus.ResetAt),
				zap.Int("inFlight", r.inFlight))
			r.inFlight++
			r.mu.Unlock()

			return nil
		}

		resetAt := r.lastStatus.ResetAt
		inFlight := r.inFlight
		wake := r.wake
		r.mu.Unlock()

		logger.Debug(ctx, "waiting for rate limit slot",
			zap.Int("remaining", remaining),
			zap.Time("resetAt", resetAt),
			zap.Int("inFlight", inFlight))

		timer := time.NewTimer(resetAt.Sub(r.now()))
		select {
		case <-ctx.Done():
			timer.Stop()

			return fmt.Errorf("timeout waiting for rate limit: %w", ctx.Err())
		case <-wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Release returns a slot and merges the budget reported by the response.
func (r *RateLimiter) Release(ctx context.Context, status certprovider.RateLimitStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFlight > 0 {
		r.inFlight--
	}

	close(r.wake)
	r.wake = make(chan struct{})

	if status.ResetAt.IsZero() {
		// no headers on the first answer means the upstream publishes no budget
		if r.lastStatus == nil || r.bootstrap {
			r.lastStatus = nil
			r.bootstrap = false
			r.unlimited = true
			logger.Debug(ctx, "no rate limit reported, not limiting")
		}

		return
	}

	r.unlimited = false
	if r.lastStatus == nil || r.bootstrap ||
		!r.lastStatus.ResetAt.Equal(status.ResetAt) ||
		status.Remaining < r.lastStatus.Remaining {
		r.lastStatus = &status
		r.bootstrap = false
		logger.Debug(ctx, "received rate limit status",
			zap.Int("limit", status.Limit),
			zap.Int("remaining", status.Remaining),
			zap.Time("resetAt", status.ResetAt),
			zap.Int("inFlight", r.inFlight))
	}
}

// ResetIn returns how long until the current window resets, zero when unknown
// or already past.
func (r *RateLimiter) ResetIn() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastStatus == nil || r.bootstrap {
		return 0
	}

	return max(r.lastStatus.ResetAt.Sub(r.now()), 0)
}
