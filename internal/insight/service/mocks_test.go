package service

import (
	"context"

	"golang-chart-insight/internal/entity"
	"golang-chart-insight/internal/insight/dto"

	"github.com/stretchr/testify/mock"
)

type mockChartRepository struct{ mock.Mock }

func (m *mockChartRepository) FetchChart(ctx context.Context, ticker string, timeframe dto.Timeframe) (*dto.ChartAsset, error) {
	args := m.Called(ctx, ticker, timeframe)
	asset, _ := args.Get(0).(*dto.ChartAsset)
	return asset, args.Error(1)
}

type mockOCRRepository struct{ mock.Mock }

func (m *mockOCRRepository) ExtractText(ctx context.Context, asset *dto.ChartAsset) (*dto.ExtractedText, error) {
	args := m.Called(ctx, asset)
	text, _ := args.Get(0).(*dto.ExtractedText)
	return text, args.Error(1)
}

type mockAIRepository struct{ mock.Mock }

func (m *mockAIRepository) GenerateInsight(ctx context.Context, input dto.PromptInput) (*dto.Insight, error) {
	args := m.Called(ctx, input)
	insight, _ := args.Get(0).(*dto.Insight)
	return insight, args.Error(1)
}

type mockNewsRepository struct{ mock.Mock }

func (m *mockNewsRepository) GetHeadlines(ctx context.Context, ticker string) ([]dto.Headline, error) {
	args := m.Called(ctx, ticker)
	headlines, _ := args.Get(0).([]dto.Headline)
	return headlines, args.Error(1)
}

type mockPriceHistoryRepository struct{ mock.Mock }

func (m *mockPriceHistoryRepository) GetDailyHistory(ctx context.Context, ticker string) ([]dto.PriceBar, error) {
	args := m.Called(ctx, ticker)
	bars, _ := args.Get(0).([]dto.PriceBar)
	return bars, args.Error(1)
}

type mockInsightRequestRepository struct{ mock.Mock }

func (m *mockInsightRequestRepository) Create(ctx context.Context, request *entity.InsightRequest) error {
	return m.Called(ctx, request).Error(0)
}

func (m *mockInsightRequestRepository) FindRecent(ctx context.Context, param dto.GetInsightHistoryParam) ([]entity.InsightRequest, error) {
	args := m.Called(ctx, param)
	rows, _ := args.Get(0).([]entity.InsightRequest)
	return rows, args.Error(1)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) SendText(ctx context.Context, chatID int64, text string) error {
	return m.Called(ctx, chatID, text).Error(0)
}

func (m *mockGateway) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	return m.Called(ctx, chatID, text).Error(0)
}

func (m *mockGateway) SendPhoto(ctx context.Context, chatID int64, fileName string, image []byte, caption string) error {
	return m.Called(ctx, chatID, fileName, image, caption).Error(0)
}

func (m *mockGateway) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return m.Called(ctx, chatID, action).Error(0)
}
