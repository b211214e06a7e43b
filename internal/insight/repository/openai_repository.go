package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang-chart-insight/internal/insight/apperror"
	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"
	"golang-chart-insight/pkg/ratelimit"

	"golang.org/x/time/rate"
)

const maxCompletionResponseBytes = 1 << 20

// openaiAIRepository talks to any OpenAI-compatible chat completion endpoint (DeepSeek, OpenAI, OpenRouter).
type openaiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	return &openaiAIRepository{
		client: &http.Client{
			Timeout: cfg.OpenAI.Timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: ratelimit.PerMinute(cfg.OpenAI.MaxRequestPerMinute),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.OpenAI.MaxTokenPerMinute),
	}
}

func (r *openaiAIRepository) GenerateInsight(ctx context.Context, input dto.PromptInput) (*dto.Insight, error) {
	const op = "ai.GenerateInsight"

	if strings.TrimSpace(input.ChartText) == "" {
		return nil, apperror.RecognitionFailed(op, fmt.Errorf("no chart text to analyze"))
	}

	prompt := BuildChartInsightPrompt(input, r.cfg.AI.MaxResponseLength)
	resp, err := r.SendRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("no choices in completion response"))
	}
	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("empty completion content"))
	}

	model := resp.Model
	if model == "" {
		model = r.cfg.OpenAI.Model
	}
	return &dto.Insight{Summary: summary, Model: model}, nil
}

func (r *openaiAIRepository) SendRequest(ctx context.Context, prompt string) (*dto.ChatCompletionResponse, error) {
	const op = "ai.SendRequest"

	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.logger.ErrorContext(ctx, "failed to wait for request limit", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}
	// Usage is only known after a call, so an exhausted window holds back the next one instead.
	if err := r.tokenLimiter.Wait(ctx, 0); err != nil {
		r.logger.ErrorContext(ctx, "failed to wait for token limit", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	payload := dto.ChatCompletionRequest{
		Model: r.cfg.OpenAI.Model,
		Messages: []dto.ChatMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature: r.cfg.AI.Temperature,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.OpenAI.BaseURL, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.cfg.OpenAI.APIKey))

	r.logger.DebugContext(ctx, "Sending request to chat completion API",
		logger.StringField("url", r.cfg.OpenAI.BaseURL),
		logger.StringField("model", r.cfg.OpenAI.Model),
	)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Received non-OK response from chat completion API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("model", r.cfg.OpenAI.Model),
		)
		return nil, statusError(op, resp)
	}

	body, err := readLimited(resp.Body, maxCompletionResponseBytes)
	if err != nil {
		return nil, apperror.UpstreamUnavailable(op, err)
	}

	var completion dto.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("failed to decode response body: %w", err))
	}
	if completion.Error != nil {
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("%s: %s", completion.Error.Type, completion.Error.Message))
	}

	r.tokenLimiter.Record(completion.Usage.TotalTokens)
	if r.cfg.OpenAI.MaxTokenPerMinute > 0 && completion.Usage.TotalTokens > r.cfg.OpenAI.MaxTokenPerMinute/2 {
		r.logger.WarnContext(ctx, "Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	return &completion, nil
}
