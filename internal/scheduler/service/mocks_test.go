package service

import (
	"context"
	"time"

	"golang-chart-insight/internal/entity"
	insightdto "golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/internal/scheduler/dto"

	"github.com/stretchr/testify/mock"
)

type mockWatchlistRepository struct{ mock.Mock }

func (m *mockWatchlistRepository) Create(ctx context.Context, watchlist *entity.Watchlist) error {
	args := m.Called(ctx, watchlist)
	if args.Error(0) == nil {
		watchlist.ID = 1
	}
	return args.Error(0)
}

func (m *mockWatchlistRepository) FindByID(ctx context.Context, id uint) (*entity.Watchlist, error) {
	args := m.Called(ctx, id)
	w, _ := args.Get(0).(*entity.Watchlist)
	return w, args.Error(1)
}

func (m *mockWatchlistRepository) FindAll(ctx context.Context, param dto.GetWatchlistsParam) ([]entity.Watchlist, error) {
	args := m.Called(ctx, param)
	w, _ := args.Get(0).([]entity.Watchlist)
	return w, args.Error(1)
}

func (m *mockWatchlistRepository) Update(ctx context.Context, watchlist *entity.Watchlist) error {
	return m.Called(ctx, watchlist).Error(0)
}

func (m *mockWatchlistRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockWatchlistRepository) FindDue(ctx context.Context, now time.Time) ([]entity.Watchlist, error) {
	args := m.Called(ctx, now)
	w, _ := args.Get(0).([]entity.Watchlist)
	return w, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishChartInsight(ctx context.Context, data *insightdto.StreamDataChartInsight) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}
