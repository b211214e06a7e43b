package service

import (
	"context"
	"time"

	"golang-chart-insight/internal/entity"
	insightdto "golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/internal/scheduler/repository"
	"golang-chart-insight/pkg/logger"
)

// SchedulerService defines the interface for the watchlist scheduling loop.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessWatchlists(ctx context.Context)
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(watchlistRepo repository.WatchlistRepository, publisher repository.StreamPublisher, logger *logger.Logger, pollingInterval time.Duration, location *time.Location) SchedulerService {
	if location == nil {
		location = time.UTC
	}
	return &schedulerService{
		watchlistRepo:   watchlistRepo,
		publisher:       publisher,
		logger:          logger,
		pollingInterval: pollingInterval,
		location:        location,
		now:             time.Now,
	}
}

type schedulerService struct {
	watchlistRepo   repository.WatchlistRepository
	publisher       repository.StreamPublisher
	logger          *logger.Logger
	pollingInterval time.Duration
	location        *time.Location
	now             func() time.Time
}

// Start begins the periodic watchlist processing loop.
func (s *schedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessWatchlists(ctx)
		}
	}
}

// ProcessWatchlists finds and publishes watchlists that are due.
func (s *schedulerService) ProcessWatchlists(ctx context.Context) {
	now := s.now()
	watchlists, err := s.watchlistRepo.FindDue(ctx, now)
	if err != nil {
		s.logger.Error("Failed to find due watchlists", logger.ErrorField(err))
		return
	}

	for i := range watchlists {
		if ctx.Err() != nil {
			return
		}
		s.publish(ctx, &watchlists[i], now)
	}
}

func (s *schedulerService) publish(ctx context.Context, watchlist *entity.Watchlist, now time.Time) {
	next, err := nextExecution(watchlist.CronExpression, now, s.location)
	if err != nil {
		// Leave it alone until someone fixes the expression through the API.
		s.logger.Error("Deactivating watchlist with a broken cron expression", logger.ErrorField(err), logger.Field("watchlist_id", watchlist.ID))
		watchlist.IsActive = false
		if err := s.watchlistRepo.Update(ctx, watchlist); err != nil {
			s.logger.Error("Failed to deactivate watchlist", logger.ErrorField(err), logger.Field("watchlist_id", watchlist.ID))
		}
		return
	}

	messageID, err := s.publisher.PublishChartInsight(ctx, &insightdto.StreamDataChartInsight{
		WatchlistID: watchlist.ID,
		ChatID:      watchlist.ChatID,
		Ticker:      watchlist.Ticker,
		Timeframe:   watchlist.Timeframe,
		ScheduledAt: now.Unix(),
	})
	if err != nil {
		// next_execution_at stays in the past, so the next poll tries again.
		s.logger.Error("Failed to enqueue watchlist", logger.ErrorField(err), logger.Field("watchlist_id", watchlist.ID))
		return
	}

	s.logger.Info("Watchlist published successfully",
		logger.Field("watchlist_id", watchlist.ID),
		logger.StringField("ticker", watchlist.Ticker),
		logger.StringField("message_id", messageID))

	watchlist.LastExecutionAt = &now
	watchlist.NextExecutionAt = &next
	if err := s.watchlistRepo.Update(ctx, watchlist); err != nil {
		s.logger.Error("Failed to update next execution time", logger.ErrorField(err), logger.Field("watchlist_id", watchlist.ID))
	}
}
