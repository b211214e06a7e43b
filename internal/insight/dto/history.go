package dto

import "time"

// InsightHistoryResponse is the API view of one recorded pipeline run.
type InsightHistoryResponse struct {
	ID          uint      `json:"id"`
	RequestID   string    `json:"request_id"`
	Ticker      string    `json:"ticker"`
	Timeframe   string    `json:"timeframe"`
	RequesterID string    `json:"requester_id"`
	ChatID      int64     `json:"chat_id"`
	Source      string    `json:"source"`
	Status      string    `json:"status"`
	Stage       string    `json:"stage"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Model       string    `json:"model,omitempty"`
	DurationMs  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetInsightHistoryParam filters the request history listing.
type GetInsightHistoryParam struct {
	Ticker string
	ChatID int64
	Limit  int
}
