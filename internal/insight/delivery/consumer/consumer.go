package consumer

import (
	"context"
	"sync"
	"time"

	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/service"
	"golang-chart-insight/pkg/common"
	"golang-chart-insight/pkg/logger"
	"golang-chart-insight/pkg/utils"
)

// RedisConsumer drives the watchlist stream service: one reader loop plus a retry ticker.
type RedisConsumer struct {
	cfg           *config.Config
	streamService service.ChartInsightStreamService
	logger        *logger.Logger
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(cfg *config.Config, streamService service.ChartInsightStreamService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		cfg:           cfg,
		streamService: streamService,
		logger:        log,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the consumer's task processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.streamService.ProcessTask, common.RedisStreamChartInsightRequest, c.cfg.Stream.Timeout)

	//handle retry
	c.RegisterTickerHandler(ctx, c.streamService.ProcessRetries, c.cfg.Stream.RetryInterval, c.cfg.Stream.Timeout, common.RedisStreamChartInsightRequest+"-retry")
}

func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

func (c *RedisConsumer) RegisterTickerHandler(ctx context.Context, fn func(ctx context.Context), interval time.Duration, timeout time.Duration, name string) {
	c.logger.Info("Registering ticker handler",
		logger.Field("name", name),
		logger.Field("interval", interval),
		logger.Field("timeout", timeout))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			case <-ctx.Done():
				c.logger.Info("Ticker handler stopping due to context cancellation", logger.Field("name", name))
				return
			case <-c.stopChan:
				c.logger.Info("Ticker handler stopping", logger.Field("name", name))
				return
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
