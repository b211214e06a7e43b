package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestTokenLimiterWithinBudget(t *testing.T) {
	l := NewTokenLimiter(100)
	require.NoError(t, l.Wait(context.Background(), 40))
	require.NoError(t, l.Wait(context.Background(), 60))
	assert.Equal(t, 0, l.GetRemaining())
}

func TestTokenLimiterRejectsOversizedRequest(t *testing.T) {
	l := NewTokenLimiter(10)
	assert.Error(t, l.Wait(context.Background(), 11))
}

func TestTokenLimiterBlocksUntilContextDone(t *testing.T) {
	l := NewTokenLimiter(10)
	require.NoError(t, l.Wait(context.Background(), 10))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx, 1), context.DeadlineExceeded)
}

func TestTokenLimiterResetsAfterWindow(t *testing.T) {
	current := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := NewTokenLimiter(10)
	l.now = func() time.Time { return current }
	l.windowStart = current

	require.NoError(t, l.Wait(context.Background(), 10))
	current = current.Add(time.Minute)
	assert.Equal(t, 10, l.GetRemaining())
	require.NoError(t, l.Wait(context.Background(), 5))
	assert.Equal(t, 5, l.GetRemaining())
}

func TestTokenLimiterRecordDoesNotBlock(t *testing.T) {
	current := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := NewTokenLimiter(10)
	l.now = func() time.Time { return current }
	l.windowStart = current

	l.Record(25)
	assert.Equal(t, 0, l.GetRemaining())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx, 0), context.DeadlineExceeded)

	current = current.Add(time.Minute)
	require.NoError(t, l.Wait(context.Background(), 0))
	assert.Equal(t, 10, l.GetRemaining())
}

func TestDisabledTokenLimiter(t *testing.T) {
	l := NewTokenLimiter(0)
	assert.NoError(t, l.Wait(context.Background(), 1_000_000))
}

func TestPerMinute(t *testing.T) {
	assert.Equal(t, rate.Inf, PerMinute(0).Limit())
	assert.InDelta(t, 1.0, float64(PerMinute(60).Limit()), 0.0001)
}
