package entity

import (
	"time"

	"gorm.io/datatypes"
)

// InsightStatus is the outcome of one pipeline run.
type InsightStatus string

const (
	InsightStatusCompleted InsightStatus = "completed"
	InsightStatusFailed    InsightStatus = "failed"
)

// InsightRequest is the audit record of one chart insight request.
type InsightRequest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RequestID   string         `gorm:"type:varchar(36);uniqueIndex" json:"request_id"`
	Ticker      string         `gorm:"type:varchar(16);index" json:"ticker"`
	Timeframe   string         `gorm:"type:varchar(4)" json:"timeframe"`
	RequesterID string         `gorm:"type:varchar(64)" json:"requester_id"`
	ChatID      int64          `gorm:"index" json:"chat_id"`
	Source      string         `gorm:"type:varchar(16)" json:"source"`
	Status      InsightStatus  `gorm:"type:varchar(16)" json:"status"`
	Stage       string         `gorm:"type:varchar(16)" json:"stage"`
	ErrorKind   string         `gorm:"type:varchar(32)" json:"error_kind"`
	Error       string         `gorm:"type:text" json:"error"`
	Summary     string         `gorm:"type:text" json:"summary"`
	Model       string         `gorm:"type:varchar(64)" json:"model"`
	DurationMs  int64          `json:"duration_ms"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (InsightRequest) TableName() string {
	return "insight_requests"
}
