package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// FixedWindowLimiter counts actions per key in a fixed window backed by
// Redis INCR+EXPIRE. A nil client means no limiting at all.
type FixedWindowLimiter struct {
	client        *redis.Client
	windowSeconds int
	maxRequests   int
}

// NewFixedWindowLimiter builds a limiter. client may be nil.
func NewFixedWindowLimiter(client *redis.Client, windowSeconds, maxRequests int) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		client:        client,
		windowSeconds: windowSeconds,
		maxRequests:   maxRequests,
	}
}

// Allow consumes one slot for (action, actorKey). When the window budget is
// exhausted it returns allowed=false and the seconds until the window resets.
// Redis errors fail open so a cache outage never blocks user actions.
func (l *FixedWindowLimiter) Allow(ctx context.Context, action string, actorKey string) (allowed bool, retryAfterSeconds int, err error) {
	if l == nil || l.client == nil || l.windowSeconds <= 0 || l.maxRequests <= 0 {
		return true, 0, nil
	}

	key := buildKey(fmt.Sprintf("ratelimit:%s:%s", strings.TrimSpace(action), strings.TrimSpace(actorKey)))
	result, err := fixedWindowScript.Run(ctx, l.client, []string{key}, l.windowSeconds).Result()
	if err != nil {
		return true, 0, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return true, 0, fmt.Errorf("rate limit script returned unexpected result: %v", result)
	}
	count, ok := toInt64(values[0])
	if !ok {
		return true, 0, fmt.Errorf("rate limit count not numeric: %v", values[0])
	}
	ttlSeconds, _ := toInt64(values[1])

	if count > int64(l.maxRequests) {
		wait := int(ttlSeconds)
		if wait < 1 {
			wait = l.windowSeconds
		}
		if wait < 1 {
			wait = 1
		}
		return false, wait, nil
	}
	return true, 0, nil
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
