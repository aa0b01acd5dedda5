package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/acme/sales-callback/internal/config"
)

// Limiter bounds callback submissions per phone number using a Redis fixed
// window counter. It guards the queue against a customer hammering the form;
// dial-out itself is never throttled.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

// New constructs a limiter from config, with sane defaults for zero values.
func New(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	max := cfg.MaxPerWindow
	if max <= 0 {
		max = 3
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "callback:submit:"
	}
	return &Limiter{client: client, max: max, window: window, prefix: prefix}
}

var allowScript = redis.NewScript(`
local key = KEYS[1]
local max = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])
local current = redis.call('INCR', key)
if current == 1 then
  redis.call('PEXPIRE', key, ttl)
end
if current > max then
  return 0
end
return 1
`)

// Allow reports whether another submission for key fits in the current
// window. Redis errors are returned so the caller can decide to fail open.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := allowScript.Run(ctx, l.client, []string{l.prefix + key}, l.max, l.window.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("ratelimit: allow: %w", err)
	}
	return res == 1, nil
}
