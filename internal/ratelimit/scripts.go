package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// throttleScript is a token bucket keyed per client. Redis truncates Lua
// numbers to integers on return, so the remaining balance comes back in
// milli-tokens and the wait is computed server side.
//
// KEYS[1] bucket, ARGV[1] tokens per second, ARGV[2] burst, ARGV[3] ttl ms.
// Returns {allowed, remaining_milli, wait_ms}.
var throttleScript = redis.NewScript(`
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local t = redis.call("TIME")
local now = t[1] * 1000 + math.floor(t[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1]) or burst
local ts = tonumber(state[2]) or now
tokens = math.min(burst, tokens + math.max(0, now - ts) / 1000 * rate)

local allowed, wait = 0, 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  wait = math.ceil((1 - tokens) / rate * 1000)
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return {allowed, math.floor(tokens * 1000), wait}
`)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func runThrottle(ctx context.Context, client redis.UniversalClient, key string, rate float64, burst int, ttl time.Duration) (Decision, error) {
	res, err := throttleScript.Run(ctx, client, []string{key}, rate, burst, ttl.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	return decode(res)
}

func decode(res []int64) (Decision, error) {
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("throttle: unexpected reply of %d values", len(res))
	}
	return Decision{
		Allowed:    res[0] == 1,
		Remaining:  int(res[1] / 1000),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
