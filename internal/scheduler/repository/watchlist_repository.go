package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-chart-insight/internal/entity"
	"golang-chart-insight/internal/scheduler/dto"

	"gorm.io/gorm"
)

// WatchlistRepository defines the interface for watchlist data operations.
type WatchlistRepository interface {
	Create(ctx context.Context, watchlist *entity.Watchlist) error
	FindByID(ctx context.Context, id uint) (*entity.Watchlist, error)
	FindAll(ctx context.Context, param dto.GetWatchlistsParam) ([]entity.Watchlist, error)
	Update(ctx context.Context, watchlist *entity.Watchlist) error
	Delete(ctx context.Context, id uint) error
	FindDue(ctx context.Context, now time.Time) ([]entity.Watchlist, error)
}

// NewWatchlistRepository creates a new GORM-based watchlist repository.
func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

type watchlistRepository struct {
	db *gorm.DB
}

// Create creates a new watchlist.
func (r *watchlistRepository) Create(ctx context.Context, watchlist *entity.Watchlist) error {
	return r.db.WithContext(ctx).Create(watchlist).Error
}

// FindByID retrieves a watchlist by its ID.
func (r *watchlistRepository) FindByID(ctx context.Context, id uint) (*entity.Watchlist, error) {
	var watchlist entity.Watchlist
	if err := r.db.WithContext(ctx).First(&watchlist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("watchlist %d: %w", id, dto.ErrNotFound)
		}
		return nil, err
	}
	return &watchlist, nil
}

// FindAll retrieves all watchlists, optionally for one chat.
func (r *watchlistRepository) FindAll(ctx context.Context, param dto.GetWatchlistsParam) ([]entity.Watchlist, error) {
	var watchlists []entity.Watchlist
	q := r.db.WithContext(ctx).Order("id ASC")
	if param.ChatID != 0 {
		q = q.Where("chat_id = ?", param.ChatID)
	}
	if err := q.Find(&watchlists).Error; err != nil {
		return nil, err
	}
	return watchlists, nil
}

// Update updates a watchlist.
func (r *watchlistRepository) Update(ctx context.Context, watchlist *entity.Watchlist) error {
	return r.db.WithContext(ctx).Save(watchlist).Error
}

// Delete soft-deletes a watchlist by its ID.
func (r *watchlistRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Watchlist{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("watchlist %d: %w", id, dto.ErrNotFound)
	}
	return nil
}

// FindDue finds active watchlists whose next execution is at or before now.
func (r *watchlistRepository) FindDue(ctx context.Context, now time.Time) ([]entity.Watchlist, error) {
	var watchlists []entity.Watchlist
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND (next_execution_at IS NULL OR next_execution_at <= ?)", true, now).
		Find(&watchlists).Error
	if err != nil {
		return nil, err
	}
	return watchlists, nil
}
