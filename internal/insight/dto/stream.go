package dto

// StreamDataChartInsight is the payload published on the chart insight request stream.
type StreamDataChartInsight struct {
	WatchlistID uint   `json:"watchlist_id"`
	ChatID      int64  `json:"chat_id"`
	Ticker      string `json:"ticker"`
	Timeframe   string `json:"timeframe"`
	ScheduledAt int64  `json:"scheduled_at"`
}
