package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-chart-insight/internal/entity"
	insightdto "golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/internal/scheduler/dto"
	"golang-chart-insight/internal/scheduler/repository"
	"golang-chart-insight/pkg/logger"
)

// WatchlistService defines the interface for managing watchlists.
type WatchlistService interface {
	CreateWatchlist(ctx context.Context, req *dto.CreateWatchlistRequest) (*dto.WatchlistResponse, error)
	GetWatchlistByID(ctx context.Context, id uint) (*dto.WatchlistResponse, error)
	GetAllWatchlists(ctx context.Context, param dto.GetWatchlistsParam) ([]*dto.WatchlistResponse, error)
	UpdateWatchlist(ctx context.Context, id uint, req *dto.UpdateWatchlistRequest) (*dto.WatchlistResponse, error)
	DeleteWatchlist(ctx context.Context, id uint) error
}

// NewWatchlistService creates a new watchlist service.
func NewWatchlistService(watchlistRepo repository.WatchlistRepository, logger *logger.Logger, location *time.Location) WatchlistService {
	if location == nil {
		location = time.UTC
	}
	return &watchlistService{
		watchlistRepo: watchlistRepo,
		logger:        logger,
		location:      location,
		now:           time.Now,
	}
}

type watchlistService struct {
	watchlistRepo repository.WatchlistRepository
	logger        *logger.Logger
	location      *time.Location
	now           func() time.Time
}

// CreateWatchlist validates the request and stores a watchlist with its first execution time.
func (s *watchlistService) CreateWatchlist(ctx context.Context, req *dto.CreateWatchlistRequest) (*dto.WatchlistResponse, error) {
	if req.ChatID == 0 {
		return nil, fmt.Errorf("%w: chat_id is required", dto.ErrValidation)
	}
	ticker := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(req.Ticker, "$")))
	if !insightdto.ValidTicker(ticker) {
		return nil, fmt.Errorf("%w: invalid ticker %q", dto.ErrValidation, req.Ticker)
	}
	timeframe, err := parseTimeframe(req.Timeframe)
	if err != nil {
		return nil, err
	}
	next, err := nextExecution(req.CronExpression, s.now(), s.location)
	if err != nil {
		return nil, err
	}

	watchlist := &entity.Watchlist{
		ChatID:          req.ChatID,
		Ticker:          ticker,
		Timeframe:       string(timeframe),
		CronExpression:  req.CronExpression,
		IsActive:        req.IsActive == nil || *req.IsActive,
		NextExecutionAt: &next,
	}

	if err := s.watchlistRepo.Create(ctx, watchlist); err != nil {
		s.logger.Error("Failed to create watchlist", logger.ErrorField(err))
		return nil, err
	}

	s.logger.Info("Watchlist created successfully",
		logger.Field("watchlist_id", watchlist.ID),
		logger.StringField("ticker", watchlist.Ticker),
		logger.Field("next_execution_at", next))
	return mapToWatchlistResponse(watchlist), nil
}

// GetWatchlistByID retrieves a watchlist by its ID.
func (s *watchlistService) GetWatchlistByID(ctx context.Context, id uint) (*dto.WatchlistResponse, error) {
	watchlist, err := s.watchlistRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find watchlist", logger.ErrorField(err), logger.Field("watchlist_id", id))
		return nil, err
	}
	return mapToWatchlistResponse(watchlist), nil
}

// GetAllWatchlists retrieves all watchlists.
func (s *watchlistService) GetAllWatchlists(ctx context.Context, param dto.GetWatchlistsParam) ([]*dto.WatchlistResponse, error) {
	watchlists, err := s.watchlistRepo.FindAll(ctx, param)
	if err != nil {
		s.logger.Error("Failed to get all watchlists", logger.ErrorField(err))
		return nil, err
	}

	responses := make([]*dto.WatchlistResponse, 0, len(watchlists))
	for i := range watchlists {
		responses = append(responses, mapToWatchlistResponse(&watchlists[i]))
	}
	return responses, nil
}

// UpdateWatchlist changes the schedule of an existing watchlist and recomputes its next execution.
func (s *watchlistService) UpdateWatchlist(ctx context.Context, id uint, req *dto.UpdateWatchlistRequest) (*dto.WatchlistResponse, error) {
	watchlist, err := s.watchlistRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find watchlist for update", logger.ErrorField(err), logger.Field("watchlist_id", id))
		return nil, err
	}

	if req.Timeframe != "" {
		timeframe, err := parseTimeframe(req.Timeframe)
		if err != nil {
			return nil, err
		}
		watchlist.Timeframe = string(timeframe)
	}
	if req.CronExpression != "" {
		watchlist.CronExpression = req.CronExpression
	}
	next, err := nextExecution(watchlist.CronExpression, s.now(), s.location)
	if err != nil {
		return nil, err
	}
	watchlist.NextExecutionAt = &next
	if req.IsActive != nil {
		watchlist.IsActive = *req.IsActive
	}

	if err := s.watchlistRepo.Update(ctx, watchlist); err != nil {
		s.logger.Error("Failed to update watchlist", logger.ErrorField(err), logger.Field("watchlist_id", id))
		return nil, err
	}

	s.logger.Info("Watchlist updated successfully", logger.Field("watchlist_id", id))
	return mapToWatchlistResponse(watchlist), nil
}

// DeleteWatchlist deletes a watchlist by its ID.
func (s *watchlistService) DeleteWatchlist(ctx context.Context, id uint) error {
	if err := s.watchlistRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete watchlist", logger.ErrorField(err), logger.Field("watchlist_id", id))
		return err
	}
	s.logger.Info("Watchlist deleted successfully", logger.Field("watchlist_id", id))
	return nil
}

func parseTimeframe(raw string) (insightdto.Timeframe, error) {
	if strings.TrimSpace(raw) == "" {
		return insightdto.DefaultTimeframe, nil
	}
	timeframe, err := insightdto.ParseTimeframe(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", dto.ErrValidation, err)
	}
	return timeframe, nil
}

func mapToWatchlistResponse(watchlist *entity.Watchlist) *dto.WatchlistResponse {
	return &dto.WatchlistResponse{
		ID:              watchlist.ID,
		ChatID:          watchlist.ChatID,
		Ticker:          watchlist.Ticker,
		Timeframe:       watchlist.Timeframe,
		CronExpression:  watchlist.CronExpression,
		IsActive:        watchlist.IsActive,
		NextExecutionAt: watchlist.NextExecutionAt,
		LastExecutionAt: watchlist.LastExecutionAt,
		CreatedAt:       watchlist.CreatedAt,
		UpdatedAt:       watchlist.UpdatedAt,
	}
}
