package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// checkAndIncrement runs GET/SET/INCR as one script so the counter update is a
// single atomic step on the Redis side. The window record expires via the key
// TTL; Redis evicts it for us when the window ends.
var checkAndIncrement = redis.NewScript(`
	local current = redis.call("GET", KEYS[1])
	if current == false then
		redis.call("SET", KEYS[1], 1, "EX", ARGV[2])
		return 1
	end
	local count = tonumber(current)
	if count >= tonumber(ARGV[1]) then
		return 0
	end
	redis.call("INCR", KEYS[1])
	return 1
`)

// Redis is a fixed-window limiter backed by a shared Redis instance, letting
// every replica of the service count against the same window.
type Redis struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	span      time.Duration
}

func NewRedis(client *redis.Client, keyPrefix string, limit int, span time.Duration) *Redis {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &Redis{client: client, keyPrefix: keyPrefix, limit: limit, span: span}
}

func (r *Redis) Allow(ctx context.Context, key string) error {
	res, err := checkAndIncrement.Run(ctx, r.client,
		[]string{r.keyPrefix + key}, r.limit, int(r.span.Seconds())).Int()
	if err != nil {
		return fmt.Errorf("rate limit script: %w", err)
	}
	if res == 0 {
		return exceeded(key)
	}
	return nil
}
