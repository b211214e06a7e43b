package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-chart-insight/internal/entity"
	insightdto "golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestSchedulerService(repo *mockWatchlistRepository, pub *mockPublisher) *schedulerService {
	svc := NewSchedulerService(repo, pub, logger.NewNop(), time.Minute, time.UTC).(*schedulerService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestProcessWatchlistsPublishesAndAdvances(t *testing.T) {
	repo := &mockWatchlistRepository{}
	pub := &mockPublisher{}
	repo.On("FindDue", mock.Anything, fixedNow).Return([]entity.Watchlist{
		{ID: 7, ChatID: 99, Ticker: "NVDA", Timeframe: "1W", CronExpression: "0 21 * * *", IsActive: true},
	}, nil).Once()
	pub.On("PublishChartInsight", mock.Anything, &insightdto.StreamDataChartInsight{
		WatchlistID: 7, ChatID: 99, Ticker: "NVDA", Timeframe: "1W", ScheduledAt: fixedNow.Unix(),
	}).Return("1-0", nil).Once()
	repo.On("Update", mock.Anything, mock.MatchedBy(func(w *entity.Watchlist) bool {
		return w.LastExecutionAt.Equal(fixedNow) &&
			w.NextExecutionAt.Equal(time.Date(2024, 7, 3, 21, 0, 0, 0, time.UTC))
	})).Return(nil).Once()

	newTestSchedulerService(repo, pub).ProcessWatchlists(context.Background())

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestProcessWatchlistsKeepsScheduleWhenPublishFails(t *testing.T) {
	repo := &mockWatchlistRepository{}
	pub := &mockPublisher{}
	repo.On("FindDue", mock.Anything, fixedNow).Return([]entity.Watchlist{
		{ID: 7, ChatID: 99, Ticker: "NVDA", Timeframe: "1D", CronExpression: "@hourly", IsActive: true},
	}, nil).Once()
	pub.On("PublishChartInsight", mock.Anything, mock.Anything).Return("", errors.New("redis down")).Once()

	newTestSchedulerService(repo, pub).ProcessWatchlists(context.Background())

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	pub.AssertExpectations(t)
}

func TestProcessWatchlistsDeactivatesBrokenCron(t *testing.T) {
	repo := &mockWatchlistRepository{}
	pub := &mockPublisher{}
	repo.On("FindDue", mock.Anything, fixedNow).Return([]entity.Watchlist{
		{ID: 8, ChatID: 99, Ticker: "AMD", CronExpression: "bogus", IsActive: true},
	}, nil).Once()
	repo.On("Update", mock.Anything, mock.MatchedBy(func(w *entity.Watchlist) bool {
		return w.ID == 8 && !w.IsActive
	})).Return(nil).Once()

	newTestSchedulerService(repo, pub).ProcessWatchlists(context.Background())

	repo.AssertExpectations(t)
	pub.AssertNotCalled(t, "PublishChartInsight", mock.Anything, mock.Anything)
}

func TestProcessWatchlistsFindDueError(t *testing.T) {
	repo := &mockWatchlistRepository{}
	pub := &mockPublisher{}
	repo.On("FindDue", mock.Anything, fixedNow).Return(nil, errors.New("db down")).Once()

	newTestSchedulerService(repo, pub).ProcessWatchlists(context.Background())

	pub.AssertNotCalled(t, "PublishChartInsight", mock.Anything, mock.Anything)
}

func TestNextExecutionHonoursLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	next, err := nextExecution("0 9 * * *", fixedNow, loc)
	assert.NoError(t, err)
	// 10:30 UTC is 17:30 WIB, so the next 09:00 WIB is the following day at 02:00 UTC.
	assert.True(t, next.Equal(time.Date(2024, 7, 4, 2, 0, 0, 0, time.UTC)), next.String())
}
