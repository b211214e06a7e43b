package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang-chart-insight/internal/insight/apperror"
	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"
	"golang-chart-insight/pkg/ratelimit"
	"golang-chart-insight/pkg/utils"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository is an AIRepository that uses the Google Gemini API.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGenAIClient builds the Gemini SDK client with the configured key and timeout.
func NewGenAIClient(ctx context.Context, cfg *config.Config) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.Gemini.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Gemini.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client, nil
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) AIRepository {
	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: ratelimit.PerMinute(cfg.Gemini.MaxRequestPerMinute),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		genAiClient:    genAiClient,
	}
}

func (r *geminiAIRepository) GenerateInsight(ctx context.Context, input dto.PromptInput) (*dto.Insight, error) {
	const op = "ai.GenerateInsight"

	if strings.TrimSpace(input.ChartText) == "" {
		return nil, apperror.RecognitionFailed(op, fmt.Errorf("no chart text to analyze"))
	}

	prompt := BuildChartInsightPrompt(input, r.cfg.AI.MaxResponseLength)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, mapGenAIError(op, fmt.Errorf("failed to count tokens: %w", err))
	}

	r.logger.DebugContext(ctx, "Gemini token count",
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, &genai.GenerateContentConfig{
		Temperature: utils.ToPointer(float32(r.cfg.AI.Temperature)),
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Gemini request failed", logger.ErrorField(err), logger.StringField("model", r.cfg.Gemini.Model))
		return nil, mapGenAIError(op, err)
	}

	summary := strings.TrimSpace(geminiText(resp))
	if summary == "" {
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("no content found in Gemini response"))
	}

	model := r.cfg.Gemini.Model
	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}
	return &dto.Insight{Summary: summary, Model: model}, nil
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// mapGenAIError turns SDK failures into typed pipeline errors.
func mapGenAIError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	if code == http.StatusTooManyRequests {
		return apperror.RateLimited(op, err)
	}
	return apperror.UpstreamUnavailable(op, err)
}
