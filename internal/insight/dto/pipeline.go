package dto

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// tickerPattern accepts exchange symbols like AAPL, BRK.B, ^GSPC, EURUSD=X and BBCA.JK.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,9}$`)

// ValidTicker reports whether ticker is syntactically a symbol the chart service could know.
func ValidTicker(ticker string) bool {
	return tickerPattern.MatchString(ticker)
}

// Timeframe selects the chart duration.
type Timeframe string

const (
	Timeframe1D Timeframe = "1D"
	Timeframe1W Timeframe = "1W"
	Timeframe1M Timeframe = "1M"
)

// DefaultTimeframe is used when a query names no timeframe.
const DefaultTimeframe = Timeframe1D

// Timeframes lists every supported timeframe in display order.
var Timeframes = []Timeframe{Timeframe1D, Timeframe1W, Timeframe1M}

// ParseTimeframe accepts 1D/1W/1M plus common aliases (d, daily, week, 1mo, ...).
func ParseTimeframe(s string) (Timeframe, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1D", "D", "DAY", "DAILY":
		return Timeframe1D, nil
	case "1W", "W", "WEEK", "WEEKLY":
		return Timeframe1W, nil
	case "1M", "M", "MONTH", "MONTHLY", "1MO":
		return Timeframe1M, nil
	}
	return "", fmt.Errorf("unsupported timeframe %q", s)
}

// Interval is the lower-case form sent to the chart service.
func (t Timeframe) Interval() string {
	return strings.ToLower(string(t))
}

func (t Timeframe) Valid() bool {
	for _, tf := range Timeframes {
		if tf == t {
			return true
		}
	}
	return false
}

// RequestSource tells where a request came from.
type RequestSource string

const (
	SourceChat      RequestSource = "chat"
	SourceWatchlist RequestSource = "watchlist"
)

// Request is one user query flowing through the pipeline.
type Request struct {
	ID          string        `json:"id"`
	Ticker      string        `json:"ticker"`
	Timeframe   Timeframe     `json:"timeframe"`
	RequesterID string        `json:"requester_id"`
	ChatID      int64         `json:"chat_id"`
	Source      RequestSource `json:"source"`
	ReceivedAt  time.Time     `json:"received_at"`
	// Context is an optional question from the requester passed to the model as is.
	Context string `json:"context,omitempty"`
}

// ImageFormat is the encoding of a chart image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "png"
	ImageFormatJPEG ImageFormat = "jpeg"
	ImageFormatWEBP ImageFormat = "webp"
	ImageFormatGIF  ImageFormat = "gif"
)

// ChartAsset is the rendered chart produced by the chart fetcher.
type ChartAsset struct {
	Image     []byte
	Format    ImageFormat
	Width     int
	Height    int
	SourceURL string
}

// FileName is the attachment name used when uploading the chart.
func (a *ChartAsset) FileName(ticker string) string {
	return fmt.Sprintf("%s.%s", strings.ToLower(ticker), a.Format)
}

// ExtractedText is the OCR output for a chart.
type ExtractedText struct {
	RawText    string
	Confidence *float64
}

// Insight is the AI-generated analysis.
type Insight struct {
	Summary string
	Model   string
}

// Response is what the gateway delivers back to the requester.
type Response struct {
	Text       string
	Attachment *ChartAsset
}
