package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/common"

	"github.com/redis/go-redis/v9"
)

// StreamPublisher hands scheduled insight requests to the bot service.
type StreamPublisher interface {
	PublishChartInsight(ctx context.Context, data *dto.StreamDataChartInsight) (string, error)
}

// NewRedisStreamPublisher creates a publisher that XADDs to the chart insight request stream.
func NewRedisStreamPublisher(redisClient *redis.Client, maxLen int64) StreamPublisher {
	return &redisStreamPublisher{redisClient: redisClient, maxLen: maxLen}
}

type redisStreamPublisher struct {
	redisClient *redis.Client
	maxLen      int64
}

func (p *redisStreamPublisher) PublishChartInsight(ctx context.Context, data *dto.StreamDataChartInsight) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal stream payload: %w", err)
	}
	id, err := p.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamChartInsightRequest,
		Values: map[string]interface{}{common.RedisStreamPayloadField: string(payload)},
		MaxLen: p.maxLen,
		Approx: true,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add to stream %s: %w", common.RedisStreamChartInsightRequest, err)
	}
	return id, nil
}
