package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute budget of AI tokens using a fixed one-minute window.
type TokenLimiter struct {
	mu          sync.Mutex
	limit       int
	used        int
	windowStart time.Time
	now         func() time.Time
}

// NewTokenLimiter returns a limiter allowing limit tokens per minute. A non-positive limit disables it.
func NewTokenLimiter(limit int) *TokenLimiter {
	return &TokenLimiter{limit: limit, now: time.Now, windowStart: time.Now()}
}

// Wait blocks until tokens fit into the current window or ctx is done.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if l.limit <= 0 {
		return nil
	}
	if tokens > l.limit {
		return fmt.Errorf("request needs %d tokens, limit is %d per minute", tokens, l.limit)
	}

	for {
		l.mu.Lock()
		now := l.now()
		l.rollLocked(now)
		if l.used+tokens <= l.limit {
			l.used += tokens
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - now.Sub(l.windowStart)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Record charges tokens to the current window without blocking. Usage past the limit
// makes the next Wait block until the window rolls over.
func (l *TokenLimiter) Record(tokens int) {
	if l.limit <= 0 || tokens <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollLocked(l.now())
	l.used += tokens
}

func (l *TokenLimiter) rollLocked(now time.Time) {
	if now.Sub(l.windowStart) >= time.Minute {
		l.windowStart = now
		l.used = 0
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	if l.limit <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.now().Sub(l.windowStart) >= time.Minute {
		return l.limit
	}
	return max(l.limit-l.used, 0)
}
