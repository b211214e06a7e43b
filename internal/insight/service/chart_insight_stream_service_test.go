package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"golang-chart-insight/internal/insight/apperror"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/common"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStreamMessage(t *testing.T) {
	msg := redis.XMessage{ID: "1-0", Values: map[string]interface{}{
		common.RedisStreamPayloadField: `{"watchlist_id":7,"chat_id":99,"ticker":"NVDA","timeframe":"1W","scheduled_at":1720000000}`,
	}}
	data, err := decodeStreamMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, uint(7), data.WatchlistID)
	assert.Equal(t, "NVDA", data.Ticker)

	_, err = decodeStreamMessage(redis.XMessage{ID: "2-0", Values: map[string]interface{}{}})
	assert.Error(t, err)

	_, err = decodeStreamMessage(redis.XMessage{ID: "3-0", Values: map[string]interface{}{common.RedisStreamPayloadField: `{"ticker":"NVDA"}`}})
	assert.Error(t, err)
}

func TestRequestFromStream(t *testing.T) {
	req := RequestFromStream(&dto.StreamDataChartInsight{
		WatchlistID: 7,
		ChatID:      99,
		Ticker:      "NVDA",
		Timeframe:   "weekly",
		ScheduledAt: 1720000000,
	}, "1-0")

	assert.Equal(t, dto.Timeframe1W, req.Timeframe)
	assert.Equal(t, dto.SourceWatchlist, req.Source)
	assert.Equal(t, "watchlist:7:1-0", req.RequesterID)
	assert.Equal(t, int64(99), req.ChatID)
	assert.True(t, req.ReceivedAt.Equal(time.Unix(1720000000, 0)))

	assert.Equal(t, dto.DefaultTimeframe, RequestFromStream(&dto.StreamDataChartInsight{Timeframe: "5Y"}, "x").Timeframe)
}

func TestShouldAck(t *testing.T) {
	assert.True(t, shouldAck(nil))
	assert.True(t, shouldAck(fmt.Errorf("chart stage: %w", apperror.InvalidSymbol("op", nil))))
	assert.False(t, shouldAck(errors.New("deliver stage: failed to send chart")))
}
