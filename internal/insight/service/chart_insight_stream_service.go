package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang-chart-insight/internal/insight/apperror"
	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/common"
	"golang-chart-insight/pkg/logger"
	"golang-chart-insight/pkg/telegram"

	"github.com/redis/go-redis/v9"
)

// ChartInsightStreamService runs the pipeline for watchlist requests published by the scheduler.
type ChartInsightStreamService interface {
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
}

type chartInsightStreamService struct {
	cfg         *config.Config
	log         *logger.Logger
	redisClient *redis.Client
	pipeline    PipelineService
	gateway     telegram.Gateway
}

func NewChartInsightStreamService(cfg *config.Config, log *logger.Logger,
	redisClient *redis.Client,
	pipeline PipelineService,
	gateway telegram.Gateway) ChartInsightStreamService {
	return &chartInsightStreamService{
		cfg:         cfg,
		log:         log,
		redisClient: redisClient,
		pipeline:    pipeline,
		gateway:     gateway,
	}
}

func (s *chartInsightStreamService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamChartInsightRequest, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		// Cancellation and idle timeouts are expected during shutdown or quiet periods.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	streamData, err := decodeStreamMessage(message)
	if err != nil {
		s.log.Error("Dropping malformed stream message", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		_ = s.AckNDel(ctx, common.RedisStreamChartInsightRequest, message.ID)
		return
	}

	s.process(ctx, message.ID, streamData)
}

func (s *chartInsightStreamService) ProcessRetries(ctx context.Context) {
	msgs, _, err := s.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamChartInsightRequest,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer + "-retry",
		MinIdle:  s.cfg.Stream.MaxIdleDuration,
		Start:    "0",
		Count:    1,
	}).Result()
	if err != nil {
		s.log.Error("Failed to claim chart insight task on retry", logger.ErrorField(err))
		return
	}

	if len(msgs) == 0 {
		s.log.Debug("Retry No pending messages found", logger.StringField("stream", common.RedisStreamChartInsightRequest))
		return
	}

	msg := msgs[0]
	pendingInfo, err := s.redisClient.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: common.RedisStreamChartInsightRequest,
		Group:  common.RedisStreamGroup,
		Start:  msg.ID,
		End:    msg.ID,
		Count:  1,
	}).Result()
	if err != nil {
		s.log.Error("Failed to get pending info", logger.ErrorField(err))
		return
	}
	if len(pendingInfo) == 0 {
		s.log.Warn("pending msg not found, but exist on xautoclaim",
			logger.StringField("stream", common.RedisStreamChartInsightRequest),
			logger.StringField("message_id", msg.ID))
		return
	}

	streamData, err := decodeStreamMessage(msg)
	if err != nil {
		s.log.Error("Dropping malformed stream message", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		_ = s.AckNDel(ctx, common.RedisStreamChartInsightRequest, msg.ID)
		return
	}

	if pendingInfo[0].RetryCount >= int64(s.cfg.Stream.MaxRetry) {
		s.log.Error("pending msg retry count exceeded",
			logger.StringField("stream", common.RedisStreamChartInsightRequest),
			logger.StringField("message_id", msg.ID),
			logger.StringField("ticker", streamData.Ticker),
			logger.IntField("retry_count", int(pendingInfo[0].RetryCount)),
			logger.IntField("max_retry", s.cfg.Stream.MaxRetry),
		)
		text := fmt.Sprintf("Scheduled analysis of %s could not be completed. It will run again at the next scheduled time.", streamData.Ticker)
		if err := s.gateway.SendText(ctx, streamData.ChatID, text); err != nil {
			s.log.Error("Failed to send retry exceeded message", logger.ErrorField(err), logger.StringField("ticker", streamData.Ticker))
		}
		_ = s.AckNDel(ctx, common.RedisStreamChartInsightRequest, msg.ID)
		return
	}

	s.log.Info("Retrying chart insight task", logger.StringField("message_id", msg.ID), logger.StringField("ticker", streamData.Ticker))
	s.process(ctx, msg.ID, streamData)
}

// process runs the pipeline for one message. Failures the requester has already been told
// about are final; anything else stays pending so ProcessRetries can claim it.
func (s *chartInsightStreamService) process(ctx context.Context, messageID string, streamData *dto.StreamDataChartInsight) {
	req := RequestFromStream(streamData, messageID)
	err := s.pipeline.Run(ctx, req)
	if !shouldAck(err) {
		s.log.Error("Chart insight task left pending", logger.ErrorField(err),
			logger.StringField("message_id", messageID),
			logger.StringField("ticker", streamData.Ticker),
		)
		return
	}
	if err := s.AckNDel(ctx, common.RedisStreamChartInsightRequest, messageID); err != nil {
		return
	}
	s.log.Debug("Chart insight task processed", logger.StringField("message_id", messageID), logger.StringField("ticker", streamData.Ticker))
}

func (s *chartInsightStreamService) AckNDel(ctx context.Context, streamName string, messageID string) error {
	// Ack after a timed-out run still has to reach Redis.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.redisClient.XAck(ctx, streamName, common.RedisStreamGroup, messageID).Err(); err != nil {
		s.log.Error("Failed to acknowledge chart insight task", logger.ErrorField(err), logger.StringField("message_id", messageID))
		return err
	}
	if err := s.redisClient.XDel(ctx, streamName, messageID).Err(); err != nil {
		s.log.Error("Failed to delete chart insight task", logger.ErrorField(err), logger.StringField("message_id", messageID))
		return err
	}
	return nil
}

func decodeStreamMessage(message redis.XMessage) (*dto.StreamDataChartInsight, error) {
	taskData, ok := message.Values[common.RedisStreamPayloadField].(string)
	if !ok {
		return nil, fmt.Errorf("field %q not found or not a string", common.RedisStreamPayloadField)
	}
	var streamData dto.StreamDataChartInsight
	if err := json.Unmarshal([]byte(taskData), &streamData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task data: %w", err)
	}
	if streamData.Ticker == "" || streamData.ChatID == 0 {
		return nil, errors.New("payload needs ticker and chat_id")
	}
	return &streamData, nil
}

// RequestFromStream builds a pipeline request for a scheduled watchlist run.
func RequestFromStream(streamData *dto.StreamDataChartInsight, messageID string) *dto.Request {
	timeframe, err := dto.ParseTimeframe(streamData.Timeframe)
	if err != nil {
		timeframe = dto.DefaultTimeframe
	}
	receivedAt := time.Now()
	if streamData.ScheduledAt > 0 {
		receivedAt = time.Unix(streamData.ScheduledAt, 0)
	}
	return &dto.Request{
		Ticker:      streamData.Ticker,
		Timeframe:   timeframe,
		RequesterID: "watchlist:" + strconv.FormatUint(uint64(streamData.WatchlistID), 10) + ":" + messageID,
		ChatID:      streamData.ChatID,
		Source:      dto.SourceWatchlist,
		ReceivedAt:  receivedAt,
	}
}

func shouldAck(err error) bool {
	return err == nil || apperror.KindOf(err) != ""
}
