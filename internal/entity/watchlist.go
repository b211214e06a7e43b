package entity

import (
	"time"

	"gorm.io/gorm"
)

// Watchlist is a recurring chart insight delivered to a chat on a cron schedule.
type Watchlist struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ChatID          int64          `gorm:"index" json:"chat_id"`
	Ticker          string         `gorm:"type:varchar(16)" json:"ticker"`
	Timeframe       string         `gorm:"type:varchar(4)" json:"timeframe"`
	CronExpression  string         `gorm:"type:varchar(255)" json:"cron_expression"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	NextExecutionAt *time.Time     `gorm:"index" json:"next_execution_at"`
	LastExecutionAt *time.Time     `json:"last_execution_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Watchlist) TableName() string {
	return "watchlists"
}
