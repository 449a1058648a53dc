package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter enforces per-minute token and request budgets with
// fixed-window counters in Redis, so multiple processes share one budget.
// Consumption is atomic via a Lua script.
type RedisLimiter struct {
	rdb               redis.UniversalClient
	keyPrefix         string
	tokensPerMinute   int
	requestsPerMinute int
	window            time.Duration
}

// Ensure RedisLimiter implements Limiter.
var _ Limiter = (*RedisLimiter)(nil)

// consumeScript increments both window counters, sets the window expiry on
// first use, and rolls back when either budget would be exceeded. The
// expiry is guarded by PTTL, not the counter value: a rolled-back counter
// sits at zero with its window still running, and a later increment must
// not restart it.
var consumeScript = redis.NewScript(`
local t = redis.call('INCRBY', KEYS[1], tonumber(ARGV[1]))
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], tonumber(ARGV[4]))
end
local r = redis.call('INCR', KEYS[2])
if redis.call('PTTL', KEYS[2]) < 0 then
	redis.call('PEXPIRE', KEYS[2], tonumber(ARGV[4]))
end
local tokenLimit = tonumber(ARGV[2])
local reqLimit = tonumber(ARGV[3])
if (tokenLimit > 0 and t > tokenLimit) or (reqLimit > 0 and r > reqLimit) then
	redis.call('DECRBY', KEYS[1], tonumber(ARGV[1]))
	redis.call('DECR', KEYS[2])
	return 0
end
return 1
`)

// NewRedis creates a distributed limiter. The keyPrefix should identify the
// budget being shared, typically the model name. A zero budget means the
// corresponding counter never refuses.
func NewRedis(rdb redis.UniversalClient, keyPrefix string, tokensPerMinute, requestsPerMinute int) *RedisLimiter {
	return &RedisLimiter{
		rdb:               rdb,
		keyPrefix:         keyPrefix,
		tokensPerMinute:   tokensPerMinute,
		requestsPerMinute: requestsPerMinute,
		window:            time.Minute,
	}
}

func (l *RedisLimiter) tokensKey() string   { return "ratelimit:" + l.keyPrefix + ":tokens" }
func (l *RedisLimiter) requestsKey() string { return "ratelimit:" + l.keyPrefix + ":requests" }

// TryConsume atomically checks capacity and consumes tokens if available.
// Redis errors are treated as refusal.
func (l *RedisLimiter) TryConsume(numTokens int) bool {
	ok, err := l.tryConsume(context.Background(), numTokens)
	if err != nil {
		return false
	}
	return ok
}

func (l *RedisLimiter) tryConsume(ctx context.Context, numTokens int) (bool, error) {
	res, err := consumeScript.Run(ctx, l.rdb,
		[]string{l.tokensKey(), l.requestsKey()},
		numTokens, l.tokensPerMinute, l.requestsPerMinute, l.window.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis rate limit check: %w", err)
	}
	return res == 1, nil
}

// TimeUntilAvailable returns the remaining window time. Within a fixed
// window the budget only resets when the window expires.
func (l *RedisLimiter) TimeUntilAvailable(tokens int) time.Duration {
	ctx := context.Background()

	tokenTTL, err := l.rdb.PTTL(ctx, l.tokensKey()).Result()
	if err != nil || tokenTTL < 0 {
		tokenTTL = 0
	}
	reqTTL, err := l.rdb.PTTL(ctx, l.requestsKey()).Result()
	if err != nil || reqTTL < 0 {
		reqTTL = 0
	}

	if tokenTTL > reqTTL {
		return tokenTTL
	}
	return reqTTL
}

// WaitAndConsume waits until tokens are available (up to maxWait), then consumes them.
// If maxWait is 0, there is no limit on how long to wait.
func (l *RedisLimiter) WaitAndConsume(ctx context.Context, tokens int, maxWait time.Duration) error {
	deadline := time.Time{}
	if maxWait > 0 {
		deadline = time.Now().Add(maxWait)
	}

	for {
		ok, err := l.tryConsume(ctx, tokens)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		wait := l.TimeUntilAvailable(tokens)
		if wait <= 0 {
			wait = 100 * time.Millisecond
		}
		if !deadline.IsZero() && time.Now().Add(wait).After(deadline) {
			return fmt.Errorf("rate limit wait time %v exceeds max wait %v", wait, maxWait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
