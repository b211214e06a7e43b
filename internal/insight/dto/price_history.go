package dto

import "time"

// PriceBar is one daily close with its traded volume.
type PriceBar struct {
	Date   time.Time
	Close  float64
	Volume int64
}

// AlphaVantageDailyResponse is the TIME_SERIES_DAILY response. Errors and throttling come back
// with status 200 and one of the message fields set.
type AlphaVantageDailyResponse struct {
	TimeSeries   map[string]AlphaVantageDailyBar `json:"Time Series (Daily)"`
	ErrorMessage string                          `json:"Error Message"`
	Note         string                          `json:"Note"`
	Information  string                          `json:"Information"`
}

// AlphaVantageDailyBar holds the quoted numbers of one trading day.
type AlphaVantageDailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}
