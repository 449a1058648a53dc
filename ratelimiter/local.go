package ratelimiter

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter enforces per-minute token and request budgets in memory.
type RateLimiter struct {
	TokensBucket   *TokenBucket
	RequestsBucket *TokenBucket
}

// Ensure RateLimiter implements Limiter.
var _ Limiter = (*RateLimiter)(nil)

// New creates an in-memory limiter with per-minute token and request
// budgets. A zero budget means the corresponding bucket never refuses.
func New(tokensPerMinute, requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		TokensBucket:   NewTokenBucket(tokensPerMinute, tokensPerMinute, time.Minute),
		RequestsBucket: NewTokenBucket(requestsPerMinute, requestsPerMinute, time.Minute),
	}
}

// HasCapacity checks if tokens are available WITHOUT consuming them.
func (rl *RateLimiter) HasCapacity(numTokens int) bool {
	return rl.TokensBucket.HasCapacity(numTokens) && rl.RequestsBucket.HasCapacity(1)
}

// TryConsume checks capacity and consumes tokens if available. A refused
// attempt leaves both budgets untouched.
func (rl *RateLimiter) TryConsume(numTokens int) bool {
	if !rl.RequestsBucket.TryConsume(1) {
		return false
	}
	if !rl.TokensBucket.TryConsume(numTokens) {
		rl.RequestsBucket.refund(1)
		return false
	}
	return true
}

// TimeUntilAvailable returns how long until the specified tokens would be
// available. This does not modify state.
func (rl *RateLimiter) TimeUntilAvailable(tokens int) time.Duration {
	tokenWait := rl.TokensBucket.TimeUntilAvailable(tokens)
	requestWait := rl.RequestsBucket.TimeUntilAvailable(1)
	if tokenWait > requestWait {
		return tokenWait
	}
	return requestWait
}

// WaitAndConsume waits until tokens are available (up to maxWait), then consumes them.
// If maxWait is 0, there is no limit on how long to wait.
// Returns an error if the context is cancelled or maxWait is exceeded.
func (rl *RateLimiter) WaitAndConsume(ctx context.Context, tokens int, maxWait time.Duration) error {
	waitDuration := rl.TimeUntilAvailable(tokens)

	if waitDuration > 0 {
		if maxWait > 0 && waitDuration > maxWait {
			return fmt.Errorf("rate limit wait time %v exceeds max wait %v", waitDuration, maxWait)
		}

		timer := time.NewTimer(waitDuration)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if !rl.TryConsume(tokens) {
		// Another consumer drained the bucket during the wait.
		return fmt.Errorf("failed to acquire tokens after waiting")
	}

	return nil
}

// TokenBucket implements a token bucket with partial refill over the
// interval. A zero capacity bucket never refuses.
type TokenBucket struct {
	mu             sync.Mutex
	capacity       int
	remaining      int
	refillInterval time.Duration
	lastRefill     time.Time
}

// NewTokenBucket creates a new token bucket.
func NewTokenBucket(capacity int, initialTokens int, refillInterval time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:       capacity,
		remaining:      initialTokens,
		refillInterval: refillInterval,
		lastRefill:     time.Now(),
	}
}

// HasCapacity checks if tokens are available WITHOUT consuming them.
func (tb *TokenBucket) HasCapacity(tokens int) bool {
	if tb.capacity <= 0 {
		return true
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()

	return tokens <= tb.effectiveRemaining(time.Now())
}

// TryConsume atomically checks and consumes tokens.
func (tb *TokenBucket) TryConsume(tokens int) bool {
	if tb.capacity <= 0 {
		return true
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(time.Now())
	if tokens > tb.remaining {
		return false
	}
	tb.remaining -= tokens
	return true
}

// TimeUntilAvailable returns how long until tokens would be available (read-only).
func (tb *TokenBucket) TimeUntilAvailable(tokens int) time.Duration {
	if tb.capacity <= 0 {
		return 0
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()

	remaining := tb.effectiveRemaining(time.Now())
	if tokens <= remaining {
		return 0
	}

	needed := tokens - remaining
	refillRate := float64(tb.capacity) / float64(tb.refillInterval)
	wait := time.Duration(float64(needed) / refillRate)

	// Small buffer so the refill has definitely happened by then.
	return wait + wait/10
}

// refund returns tokens taken by a partially refused consume.
func (tb *TokenBucket) refund(tokens int) {
	if tb.capacity <= 0 {
		return
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.remaining = min(tb.capacity, tb.remaining+tokens)
}

// refill tops the bucket up for the time elapsed since the last refill.
// Caller must hold the lock.
func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill)
	if elapsed <= 0 {
		return
	}
	if elapsed >= tb.refillInterval {
		tb.remaining = tb.capacity
		tb.lastRefill = now
		return
	}

	replenished := int(float64(tb.capacity) * (float64(elapsed) / float64(tb.refillInterval)))
	if replenished > 0 {
		tb.remaining = min(tb.capacity, tb.remaining+replenished)
		tb.lastRefill = now
	}
}

// effectiveRemaining computes the balance including pending refill without
// mutating state. Caller must hold the lock.
func (tb *TokenBucket) effectiveRemaining(now time.Time) int {
	elapsed := now.Sub(tb.lastRefill)
	if elapsed >= tb.refillInterval {
		return tb.capacity
	}
	if elapsed <= 0 {
		return tb.remaining
	}
	replenished := int(float64(tb.capacity) * (float64(elapsed) / float64(tb.refillInterval)))
	return min(tb.capacity, tb.remaining+replenished)
}
