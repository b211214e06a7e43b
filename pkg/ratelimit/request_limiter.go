package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// PerMinute returns a limiter allowing n requests per minute with a burst of one.
// A non-positive n yields an unlimited limiter.
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}
