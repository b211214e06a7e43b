package service

import (
	"context"
	"strings"

	"golang-chart-insight/internal/entity"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/internal/insight/repository"
	"golang-chart-insight/pkg/logger"
)

// InsightHistoryService lists recorded pipeline runs.
type InsightHistoryService interface {
	GetRecent(ctx context.Context, param dto.GetInsightHistoryParam) ([]*dto.InsightHistoryResponse, error)
}

// NewInsightHistoryService creates a new insight history service.
func NewInsightHistoryService(historyRepo repository.InsightRequestRepository, logger *logger.Logger) InsightHistoryService {
	return &insightHistoryService{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

type insightHistoryService struct {
	historyRepo repository.InsightRequestRepository
	logger      *logger.Logger
}

func (s *insightHistoryService) GetRecent(ctx context.Context, param dto.GetInsightHistoryParam) ([]*dto.InsightHistoryResponse, error) {
	param.Ticker = strings.ToUpper(strings.TrimSpace(param.Ticker))
	rows, err := s.historyRepo.FindRecent(ctx, param)
	if err != nil {
		s.logger.Error("Failed to get insight history", logger.ErrorField(err), logger.StringField("ticker", param.Ticker))
		return nil, err
	}

	responses := make([]*dto.InsightHistoryResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, mapToInsightHistoryResponse(&rows[i]))
	}
	return responses, nil
}

func mapToInsightHistoryResponse(row *entity.InsightRequest) *dto.InsightHistoryResponse {
	return &dto.InsightHistoryResponse{
		ID:          row.ID,
		RequestID:   row.RequestID,
		Ticker:      row.Ticker,
		Timeframe:   row.Timeframe,
		RequesterID: row.RequesterID,
		ChatID:      row.ChatID,
		Source:      row.Source,
		Status:      string(row.Status),
		Stage:       row.Stage,
		ErrorKind:   row.ErrorKind,
		Summary:     row.Summary,
		Model:       row.Model,
		DurationMs:  row.DurationMs,
		CreatedAt:   row.CreatedAt,
	}
}
