package consumer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type countingStreamService struct {
	tasks   atomic.Int32
	retries atomic.Int32
}

func (s *countingStreamService) ProcessTask(ctx context.Context) {
	s.tasks.Add(1)
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Millisecond):
	}
}

func (s *countingStreamService) ProcessRetries(ctx context.Context) {
	s.retries.Add(1)
}

func TestRedisConsumerRunsHandlersUntilStopped(t *testing.T) {
	cfg := &config.Config{}
	cfg.Stream.Timeout = time.Second
	cfg.Stream.RetryInterval = 10 * time.Millisecond

	svc := &countingStreamService{}
	c := NewRedisConsumer(cfg, svc, logger.NewNop())
	c.Start(context.Background())

	assert.Eventually(t, func() bool {
		return svc.tasks.Load() > 1 && svc.retries.Load() > 1
	}, 2*time.Second, 5*time.Millisecond)

	c.Stop()
	tasks := svc.tasks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, tasks, svc.tasks.Load())
	c.Stop()
}

func TestRedisConsumerStopsOnContextCancel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Stream.Timeout = time.Second
	cfg.Stream.RetryInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	c := NewRedisConsumer(cfg, &countingStreamService{}, logger.NewNop())
	c.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
