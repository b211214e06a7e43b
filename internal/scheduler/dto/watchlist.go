package dto

import (
	"time"
)

// CreateWatchlistRequest defines the DTO for creating a new watchlist.
type CreateWatchlistRequest struct {
	ChatID         int64  `json:"chat_id" example:"123456789"`
	Ticker         string `json:"ticker" example:"AAPL"`
	Timeframe      string `json:"timeframe" example:"1D"`
	CronExpression string `json:"cron_expression" example:"0 21 * * 1-5"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

// UpdateWatchlistRequest defines the DTO for updating an existing watchlist.
// Omitted fields keep their stored values.
type UpdateWatchlistRequest struct {
	Timeframe      string `json:"timeframe" example:"1W"`
	CronExpression string `json:"cron_expression" example:"0 9 * * 1"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

// WatchlistResponse is the DTO for API responses containing watchlist details.
type WatchlistResponse struct {
	ID              uint       `json:"id"`
	ChatID          int64      `json:"chat_id"`
	Ticker          string     `json:"ticker"`
	Timeframe       string     `json:"timeframe"`
	CronExpression  string     `json:"cron_expression"`
	IsActive        bool       `json:"is_active"`
	NextExecutionAt *time.Time `json:"next_execution_at"`
	LastExecutionAt *time.Time `json:"last_execution_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// GetWatchlistsParam filters the watchlist listing.
type GetWatchlistsParam struct {
	ChatID int64
}
