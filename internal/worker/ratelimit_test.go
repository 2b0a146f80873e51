package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"domainctl/pkg/certprovider"
)

func reserveAsync(ctx context.Context, r *RateLimiter) <-chan error {
	done := make(chan error, 1)
	go func() { done <- r.Reserve(ctx) }()

	return done
}

func requireBlocked(t *testing.T, done <-chan error, d time.Duration) {
	t.Helper()

	select {
	case err := <-done:
		t.Fatalf("reservation went through while the budget was exhausted: %v", err)
	case <-time.After(d):
	}
}

func requireReserved(t *testing.T, done <-chan error) {
	t.Helper()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reservation did not go through")
	}
}

func TestRateLimiter_BootstrapAllowsOneRequest(t *testing.T) {
	r := NewRateLimiter()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	require.NoError(t, r.Reserve(ctx))

	second := reserveAsync(ctx, r)
	requireBlocked(t, second, 100*time.Millisecond)

	r.Release(ctx, certprovider.RateLimitStatus{Limit: 10, Remaining: 9, ResetAt: time.Now().Add(time.Minute)})
	requireReserved(t, second)
}

func TestRateLimiter_HeaderlessAnswerLiftsLimit(t *testing.T) {
	r := NewRateLimiter()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	require.NoError(t, r.Reserve(ctx))

	// two waiters queue behind the first request and are both released by it
	first := reserveAsync(ctx, r)
	second := reserveAsync(ctx, r)
	requireBlocked(t, first, 100*time.Millisecond)

	r.Release(ctx, certprovider.RateLimitStatus{})
	requireReserved(t, first)
	requireReserved(t, second)
	require.Zero(t, r.ResetIn())

	// concurrent calls go through without any release
	for range 5 {
		require.NoError(t, r.Reserve(ctx))
	}

	// a response that reports a budget turns limiting back on
	r.Release(ctx, certprovider.RateLimitStatus{Limit: 10, Remaining: 0, ResetAt: time.Now().Add(time.Minute)})
	requireBlocked(t, reserveAsync(ctx, r), 100*time.Millisecond)
	require.Positive(t, r.ResetIn())
}

func TestRateLimiter_AllowsUpToRemaining(t *testing.T) {
	r := NewRateLimiter()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	require.NoError(t, r.Reserve(ctx))
	r.Release(ctx, certprovider.RateLimitStatus{Limit: 2, Remaining: 2, ResetAt: time.Now().Add(time.Minute)})

	require.NoError(t, r.Reserve(ctx))
	require.NoError(t, r.Reserve(ctx))

	third := reserveAsync(ctx, r)
	requireBlocked(t, third, 150*time.Millisecond)

	// the finished request reports an unchanged budget, so one slot frees up
	r.Release(ctx, certprovider.RateLimitStatus{Limit: 2, Remaining: 2, ResetAt: time.Now().Add(time.Minute)})
	requireReserved(t, third)
}

func TestRateLimiter_WaitsForReset(t *testing.T) {
	r := NewRateLimiter()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resetDelay := 300 * time.Millisecond
	require.NoError(t, r.Reserve(ctx))
	r.Release(ctx, certprovider.RateLimitStatus{Limit: 5, Remaining: 0, ResetAt: time.Now().Add(resetDelay)})
	require.Positive(t, r.ResetIn())

	start := time.Now()
	requireReserved(t, reserveAsync(ctx, r))
	require.GreaterOrEqual(t, time.Since(start), resetDelay-75*time.Millisecond)
}

func TestRateLimiter_KeepsLowestRemainingInWindow(t *testing.T) {
	r := NewRateLimiter()
	ctx := context.Background()
	resetAt := time.Now().Add(time.Minute)

	r.Release(ctx, certprovider.RateLimitStatus{Limit: 10, Remaining: 3, ResetAt: resetAt})
	r.Release(ctx, certprovider.RateLimitStatus{Limit: 10, Remaining: 7, ResetAt: resetAt})
	require.Equal(t, 3, r.lastStatus.Remaining)

	// headerless responses leave the view alone
	r.Release(ctx, certprovider.RateLimitStatus{})
	require.Equal(t, 3, r.lastStatus.Remaining)

	next := resetAt.Add(time.Minute)
	r.Release(ctx, certprovider.RateLimitStatus{Limit: 10, Remaining: 9, ResetAt: next})
	require.Equal(t, 9, r.lastStatus.Remaining)
	require.Equal(t, next, r.lastStatus.ResetAt)
}

func TestRateLimiter_ContextCancel(t *testing.T) {
	r := NewRateLimiter()
	require.NoError(t, r.Reserve(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, r.Reserve(ctx), context.DeadlineExceeded)
}
