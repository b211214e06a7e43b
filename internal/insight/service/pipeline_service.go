package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-chart-insight/internal/entity"
	"golang-chart-insight/internal/insight/apperror"
	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/internal/insight/repository"
	"golang-chart-insight/pkg/logger"
	"golang-chart-insight/pkg/telegram"
	"golang-chart-insight/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline stages, recorded with every request.
const (
	StageChart   = "chart"
	StageOCR     = "ocr"
	StageInsight = "insight"
	StageDeliver = "deliver"
	StageDone    = "done"
)

// notifyTimeout bounds the failure reply and the audit write, which run even after the
// request context has expired.
const notifyTimeout = 15 * time.Second

// PipelineService runs one chart insight request end to end: chart, OCR, AI, delivery.
type PipelineService interface {
	Run(ctx context.Context, req *dto.Request) error
}

type pipelineService struct {
	cfg         *config.Config
	log         *logger.Logger
	chartRepo   repository.ChartRepository
	ocrRepo     repository.OCRRepository
	aiRepo      repository.AIRepository
	newsRepo    repository.NewsRepository
	priceRepo   repository.PriceHistoryRepository
	historyRepo repository.InsightRequestRepository
	gateway     telegram.Gateway
	location    *time.Location
	now         func() time.Time
}

// NewPipelineService wires the stages together. newsRepo and priceRepo may be nil to skip
// headline and price history context.
func NewPipelineService(
	cfg *config.Config,
	log *logger.Logger,
	chartRepo repository.ChartRepository,
	ocrRepo repository.OCRRepository,
	aiRepo repository.AIRepository,
	newsRepo repository.NewsRepository,
	priceRepo repository.PriceHistoryRepository,
	historyRepo repository.InsightRequestRepository,
	gateway telegram.Gateway,
) PipelineService {
	if historyRepo == nil {
		historyRepo = repository.NewNoopInsightRequestRepository()
	}
	return &pipelineService{
		cfg:         cfg,
		log:         log,
		chartRepo:   chartRepo,
		ocrRepo:     ocrRepo,
		aiRepo:      aiRepo,
		newsRepo:    newsRepo,
		priceRepo:   priceRepo,
		historyRepo: historyRepo,
		gateway:     gateway,
		location:    utils.LocationOrUTC(cfg.Bot.TimeLocation),
		now:         time.Now,
	}
}

// run carries the intermediate results of one request.
type run struct {
	req       *dto.Request
	stage     string
	asset     *dto.ChartAsset
	text      *dto.ExtractedText
	headlines []dto.Headline
	prices    []dto.PriceBar
	insight   *dto.Insight
}

func (s *pipelineService) Run(ctx context.Context, req *dto.Request) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.ReceivedAt.IsZero() {
		req.ReceivedAt = s.now()
	}
	if !req.Timeframe.Valid() {
		req.Timeframe = dto.DefaultTimeframe
	}
	ctx = logger.WithRequestID(ctx, req.ID)
	start := s.now()

	s.log.InfoContext(ctx, "Processing chart insight request",
		logger.StringField("ticker", req.Ticker),
		logger.StringField("timeframe", string(req.Timeframe)),
		logger.StringField("source", string(req.Source)),
		logger.Field("chat_id", req.ChatID),
	)

	if !s.cfg.Bot.DisableAck {
		if err := s.gateway.SendText(ctx, req.ChatID, telegram.FormatAckMessage(req.Ticker, req.Timeframe)); err != nil {
			s.log.WarnContext(ctx, "Failed to send acknowledgement", logger.ErrorField(err))
		}
	}

	r := &run{req: req}
	err := s.execute(ctx, r)
	if err == nil {
		r.stage = StageDeliver
		err = s.deliver(ctx, r)
	}

	if err != nil {
		s.log.ErrorContext(ctx, "Chart insight request failed",
			logger.StringField("ticker", req.Ticker),
			logger.StringField("stage", r.stage),
			logger.StringField("error_kind", string(apperror.KindOf(err))),
			logger.ErrorField(err),
		)
		s.notifyFailure(ctx, req, err)
		s.record(ctx, r, start, err)
		return fmt.Errorf("%s stage: %w", r.stage, err)
	}

	r.stage = StageDone
	s.record(ctx, r, start, nil)
	s.log.InfoContext(ctx, "Chart insight delivered",
		logger.StringField("ticker", req.Ticker),
		logger.Field("duration", s.now().Sub(start)),
	)
	return nil
}

// execute runs the stages in order and stops at the first failure. Every failure carries
// an apperror kind except a cancelled context.
func (s *pipelineService) execute(ctx context.Context, r *run) error {
	req := r.req

	r.stage = StageChart
	started := s.stageStarted(ctx, req, StageChart)
	asset, err := s.chartRepo.FetchChart(ctx, req.Ticker, req.Timeframe)
	if err != nil {
		return classify(StageChart, err)
	}
	if asset == nil || len(asset.Image) == 0 {
		return apperror.UpstreamUnavailable(StageChart, errors.New("chart service returned no image"))
	}
	r.asset = asset
	s.stageFinished(ctx, req, StageChart, started, logger.IntField("bytes", len(asset.Image)))

	r.stage = StageOCR
	started = s.stageStarted(ctx, req, StageOCR)
	text, err := s.ocrRepo.ExtractText(ctx, asset)
	if err != nil {
		return classify(StageOCR, err)
	}
	if text == nil || strings.TrimSpace(text.RawText) == "" {
		return apperror.RecognitionFailed(StageOCR, errors.New("no text recognized"))
	}
	r.text = text
	s.stageFinished(ctx, req, StageOCR, started, logger.IntField("characters", len(text.RawText)))

	r.headlines = s.headlines(ctx, req.Ticker)
	r.prices = s.priceHistory(ctx, req.Ticker)

	r.stage = StageInsight
	started = s.stageStarted(ctx, req, StageInsight)
	insight, err := s.aiRepo.GenerateInsight(ctx, dto.PromptInput{
		Ticker:       req.Ticker,
		Timeframe:    req.Timeframe,
		ChartText:    text.RawText,
		Headlines:    r.headlines,
		PriceHistory: r.prices,
		Context:      req.Context,
	})
	if err != nil {
		return classify(StageInsight, err)
	}
	if insight == nil || strings.TrimSpace(insight.Summary) == "" {
		return apperror.UpstreamUnavailable(StageInsight, errors.New("empty analysis"))
	}
	r.insight = insight
	s.stageFinished(ctx, req, StageInsight, started, logger.StringField("model", insight.Model))

	return nil
}

func (s *pipelineService) stageStarted(ctx context.Context, req *dto.Request, stage string) time.Time {
	s.log.DebugContext(ctx, "Stage started",
		logger.StringField("stage", stage),
		logger.StringField("ticker", req.Ticker),
		logger.StringField("timeframe", string(req.Timeframe)),
	)
	return s.now()
}

func (s *pipelineService) stageFinished(ctx context.Context, req *dto.Request, stage string, started time.Time, fields ...zap.Field) {
	fields = append(fields,
		logger.StringField("stage", stage),
		logger.StringField("ticker", req.Ticker),
		logger.StringField("timeframe", string(req.Timeframe)),
		logger.Field("duration", s.now().Sub(started)),
	)
	s.log.DebugContext(ctx, "Stage finished", fields...)
}

// headlines is best effort: a failing feed never aborts the request.
func (s *pipelineService) headlines(ctx context.Context, ticker string) []dto.Headline {
	if s.newsRepo == nil {
		return nil
	}
	headlines, err := s.newsRepo.GetHeadlines(ctx, ticker)
	if err != nil {
		s.log.WarnContext(ctx, "Skipping news context", logger.ErrorField(err))
		return nil
	}
	return headlines
}

// priceHistory is best effort like headlines.
func (s *pipelineService) priceHistory(ctx context.Context, ticker string) []dto.PriceBar {
	if s.priceRepo == nil {
		return nil
	}
	bars, err := s.priceRepo.GetDailyHistory(ctx, ticker)
	if err != nil {
		s.log.WarnContext(ctx, "Skipping price history context",
			logger.StringField("error_kind", string(apperror.KindOf(err))),
			logger.ErrorField(err),
		)
		return nil
	}
	return bars
}

// deliver sends the chart with the analysis. Short analyses go in the photo caption; longer
// ones follow the photo as one or more text messages.
func (s *pipelineService) deliver(ctx context.Context, r *run) error {
	req := r.req
	resp := dto.Response{
		Text:       telegram.FormatInsightMessage(req.Ticker, req.Timeframe, r.insight, s.now().In(s.location)),
		Attachment: r.asset,
	}
	fileName := resp.Attachment.FileName(req.Ticker)

	if telegram.FitsCaption(resp.Text) {
		if err := s.gateway.SendPhoto(ctx, req.ChatID, fileName, resp.Attachment.Image, resp.Text); err != nil {
			return fmt.Errorf("failed to send chart: %w", err)
		}
		return nil
	}

	caption := telegram.FormatChartCaption(req.Ticker, req.Timeframe)
	if err := s.gateway.SendPhoto(ctx, req.ChatID, fileName, resp.Attachment.Image, caption); err != nil {
		return fmt.Errorf("failed to send chart: %w", err)
	}
	for i, chunk := range telegram.SplitMessage(resp.Text, telegram.MaxMessageLength) {
		if err := s.gateway.SendMarkdown(ctx, req.ChatID, chunk); err != nil {
			return fmt.Errorf("failed to send analysis part %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *pipelineService) notifyFailure(ctx context.Context, req *dto.Request, cause error) {
	if errors.Is(cause, context.Canceled) {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.gateway.SendText(notifyCtx, req.ChatID, apperror.UserMessage(cause, req.Ticker)); err != nil {
		s.log.ErrorContext(ctx, "Failed to send failure reply", logger.ErrorField(err))
	}
}

func (s *pipelineService) record(ctx context.Context, r *run, start time.Time, cause error) {
	req := r.req
	row := &entity.InsightRequest{
		RequestID:   req.ID,
		Ticker:      req.Ticker,
		Timeframe:   string(req.Timeframe),
		RequesterID: req.RequesterID,
		ChatID:      req.ChatID,
		Source:      string(req.Source),
		Status:      entity.InsightStatusCompleted,
		Stage:       r.stage,
		DurationMs:  s.now().Sub(start).Milliseconds(),
	}
	if cause != nil {
		row.Status = entity.InsightStatusFailed
		row.ErrorKind = string(apperror.KindOf(cause))
		row.Error = cause.Error()
	}
	if r.insight != nil {
		row.Summary = r.insight.Summary
		row.Model = r.insight.Model
	}

	meta := map[string]interface{}{}
	if r.asset != nil {
		meta["chart_url"] = r.asset.SourceURL
		meta["image_format"] = r.asset.Format
		meta["image_width"] = r.asset.Width
		meta["image_height"] = r.asset.Height
	}
	if r.text != nil {
		meta["ocr_text"] = r.text.RawText
		if r.text.Confidence != nil {
			meta["ocr_confidence"] = *r.text.Confidence
		}
	}
	if len(r.headlines) > 0 {
		meta["headlines"] = len(r.headlines)
	}
	if len(r.prices) > 0 {
		meta["price_bars"] = len(r.prices)
	}
	if req.Context != "" {
		meta["context"] = req.Context
	}
	if data, err := json.Marshal(meta); err == nil {
		row.Metadata = data
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.historyRepo.Create(recordCtx, row); err != nil {
		s.log.WarnContext(ctx, "Failed to record insight request", logger.ErrorField(err))
	}
}

// classify gives untyped stage failures a kind. Cancellation passes through untouched.
func classify(stage string, err error) error {
	if apperror.KindOf(err) != "" || errors.Is(err, context.Canceled) {
		return err
	}
	return apperror.UpstreamUnavailable(stage, err)
}
