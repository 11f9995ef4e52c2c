// Package redis holds the per-phone issue throttle.
package redis

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// allowScript counts hits in a fixed window that starts at the first hit.
const allowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type evaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *goredis.Cmd
}

// Throttle caps how many codes one phone number can request per window.
// Redis failures fail open: the OTP flow must not depend on the throttle.
type Throttle struct {
	client evaler
	window time.Duration
	max    int
	prefix string
}

// NewClient builds a go-redis client for addr.
func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewThrottle(client *goredis.Client, window time.Duration, max int) *Throttle {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &Throttle{client: client, window: window, max: max, prefix: "otp:send:"}
}

// Allow records a hit for phoneNumber and reports whether it is within the cap.
func (t *Throttle) Allow(ctx context.Context, phoneNumber string) bool {
	if t == nil || t.client == nil {
		return true
	}
	if phoneNumber == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(t.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := t.client.Eval(ctx, allowScript, []string{t.prefix + phoneNumber}, seconds).Int()
	if err != nil {
		slog.Warn("otp throttle unavailable, allowing", "err", err)
		return true
	}
	return count <= t.max
}
