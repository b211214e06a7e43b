package repository

import (
	"context"

	"golang-chart-insight/internal/entity"
	"golang-chart-insight/internal/insight/dto"
)

// ChartRepository renders a chart image for a ticker.
type ChartRepository interface {
	FetchChart(ctx context.Context, ticker string, timeframe dto.Timeframe) (*dto.ChartAsset, error)
}

// OCRRepository extracts text from a chart image.
type OCRRepository interface {
	ExtractText(ctx context.Context, asset *dto.ChartAsset) (*dto.ExtractedText, error)
}

// AIRepository turns extracted chart text into a natural-language analysis.
type AIRepository interface {
	GenerateInsight(ctx context.Context, input dto.PromptInput) (*dto.Insight, error)
}

// NewsRepository fetches recent headlines for a ticker.
type NewsRepository interface {
	GetHeadlines(ctx context.Context, ticker string) ([]dto.Headline, error)
}

// PriceHistoryRepository fetches daily closes and volumes for a ticker, newest first.
type PriceHistoryRepository interface {
	GetDailyHistory(ctx context.Context, ticker string) ([]dto.PriceBar, error)
}

// InsightRequestRepository stores the audit trail of pipeline runs.
type InsightRequestRepository interface {
	Create(ctx context.Context, request *entity.InsightRequest) error
	FindRecent(ctx context.Context, param dto.GetInsightHistoryParam) ([]entity.InsightRequest, error)
}
