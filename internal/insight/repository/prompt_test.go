package repository

import (
	"strings"
	"testing"
	"time"

	"golang-chart-insight/internal/insight/dto"

	"github.com/stretchr/testify/assert"
)

func TestBuildChartInsightPrompt(t *testing.T) {
	prompt := BuildChartInsightPrompt(dto.PromptInput{
		Ticker:    "TSLA",
		Timeframe: dto.Timeframe1M,
		ChartText: "TSLA\n\n  MA 50 231.4 \nVol 80M",
		Headlines: []dto.Headline{
			{Title: "Tesla deliveries beat estimates", Source: "Reuters", PublishedAt: time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)},
		},
	}, 4000)

	assert.Contains(t, prompt, "monthly chart of TSLA")
	assert.Contains(t, prompt, "- MA 50 231.4\n- Vol 80M\n")
	assert.Contains(t, prompt, "1. Tesla deliveries beat estimates (Reuters) - 2024-07-02")
	assert.Contains(t, prompt, "strictly within 4000 characters")
	assert.Contains(t, prompt, "Key support and resistance levels")
}

func TestBuildChartInsightPromptWithoutHeadlines(t *testing.T) {
	prompt := BuildChartInsightPrompt(dto.PromptInput{Ticker: "AAPL", Timeframe: dto.Timeframe1D, ChartText: "AAPL"}, 1000)
	assert.NotContains(t, prompt, "news headlines")
	assert.NotContains(t, prompt, "Historical daily data")
	assert.NotContains(t, prompt, "Additional context")
	assert.Contains(t, prompt, "daily chart of AAPL")
}

func TestBuildChartInsightPromptTruncatesChartText(t *testing.T) {
	prompt := BuildChartInsightPrompt(dto.PromptInput{Ticker: "AAPL", ChartText: strings.Repeat("x", maxPromptChartText*2)}, 1000)
	assert.Less(t, strings.Count(prompt, "x"), maxPromptChartText+50)
}

func TestBuildChartInsightPromptWithPriceHistoryAndContext(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 7, d, 0, 0, 0, 0, time.UTC) }
	prompt := BuildChartInsightPrompt(dto.PromptInput{
		Ticker:    "AAPL",
		Timeframe: dto.Timeframe1W,
		ChartText: "AAPL",
		PriceHistory: []dto.PriceBar{
			{Date: day(3), Close: 221.55, Volume: 37369801},
			{Date: day(2), Close: 220.27, Volume: 58046178},
			{Date: day(1), Close: 216.75, Volume: 60402929},
		},
		Context: "  what about earnings?  ",
	}, 4000)

	assert.Contains(t, prompt, "Historical daily data (newest first):\nDate | Close Price | Volume\n")
	assert.Contains(t, prompt, "2024-07-03 | $221.55 | 37,369,801\n2024-07-02 | $220.27 | 58,046,178\n")
	assert.Contains(t, prompt, "- Date Range: 2024-07-01 to 2024-07-03")
	assert.Contains(t, prompt, "- Price Change: $4.80 (2.21%)")
	assert.Contains(t, prompt, "- Average Volume: 51,939,636")
	assert.Contains(t, prompt, "- Volume Range: 37,369,801 to 60,402,929")
	assert.Contains(t, prompt, "Additional context from the requester (answer it as part of the analysis):\nwhat about earnings?\n")
}

func TestFormatPriceHistoryCapsRows(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]dto.PriceBar, 0, 100)
	for i := 99; i >= 0; i-- {
		bars = append(bars, dto.PriceBar{Date: start.AddDate(0, 0, i), Close: 100 + float64(i), Volume: 1000})
	}

	table := FormatPriceHistory(bars, 30)
	assert.Equal(t, 30, strings.Count(table, " | $"))
	assert.Contains(t, table, "- Date Range: 2024-01-01 to 2024-04-09")
	assert.Contains(t, table, "- Price Change: $99.00 (99.00%)")

	assert.Equal(t, "No historical data available.\n", FormatPriceHistory(nil, 30))
}
