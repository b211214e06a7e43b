package repository

import (
	"context"

	"golang-chart-insight/internal/entity"
	"golang-chart-insight/internal/insight/dto"

	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// NewInsightRequestRepository creates a new GORM-based insight request repository.
func NewInsightRequestRepository(db *gorm.DB) InsightRequestRepository {
	return &insightRequestRepository{db: db}
}

type insightRequestRepository struct {
	db *gorm.DB
}

func (r *insightRequestRepository) Create(ctx context.Context, request *entity.InsightRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// FindRecent lists the newest records first, optionally filtered by ticker and chat.
func (r *insightRequestRepository) FindRecent(ctx context.Context, param dto.GetInsightHistoryParam) ([]entity.InsightRequest, error) {
	var requests []entity.InsightRequest
	query := r.db.WithContext(ctx).Model(&entity.InsightRequest{})
	if param.Ticker != "" {
		query = query.Where("ticker = ?", param.Ticker)
	}
	if param.ChatID != 0 {
		query = query.Where("chat_id = ?", param.ChatID)
	}
	if err := query.Order("created_at DESC").Limit(historyLimit(param.Limit)).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func historyLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	default:
		return limit
	}
}

// NewNoopInsightRequestRepository is used when no database is configured.
func NewNoopInsightRequestRepository() InsightRequestRepository {
	return noopInsightRequestRepository{}
}

type noopInsightRequestRepository struct{}

func (noopInsightRequestRepository) Create(context.Context, *entity.InsightRequest) error {
	return nil
}

func (noopInsightRequestRepository) FindRecent(context.Context, dto.GetInsightHistoryParam) ([]entity.InsightRequest, error) {
	return nil, nil
}
