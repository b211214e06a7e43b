package repository

import (
	"fmt"
	"strings"

	"golang-chart-insight/internal/insight/dto"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxPriceRows is how many daily bars the price table shows.
const maxPriceRows = 30

// maxPromptChartText caps the OCR text embedded in a prompt. Noisy charts can produce
// pages of tick labels that only burn tokens.
const maxPromptChartText = 6000

func BuildChartInsightPrompt(input dto.PromptInput, maxResponseLength int) string {
	var detected strings.Builder
	for _, line := range strings.Split(truncateRunes(input.ChartText, maxPromptChartText), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			detected.WriteString("- ")
			detected.WriteString(line)
			detected.WriteString("\n")
		}
	}

	var news strings.Builder
	if len(input.Headlines) > 0 {
		news.WriteString("\nRecent news headlines for context (do not treat them as chart data):\n")
		for i, h := range input.Headlines {
			fmt.Fprintf(&news, "%d. %s", i+1, h.Title)
			if h.Source != "" {
				fmt.Fprintf(&news, " (%s)", h.Source)
			}
			if !h.PublishedAt.IsZero() {
				fmt.Fprintf(&news, " - %s", h.PublishedAt.Format("2006-01-02"))
			}
			news.WriteString("\n")
		}
	}

	var extra strings.Builder
	if len(input.PriceHistory) > 0 {
		extra.WriteString("\nHistorical daily data (newest first):\n")
		extra.WriteString(FormatPriceHistory(input.PriceHistory, maxPriceRows))
	}
	if question := strings.TrimSpace(input.Context); question != "" {
		extra.WriteString("\nAdditional context from the requester (answer it as part of the analysis):\n")
		extra.WriteString(question)
		extra.WriteString("\n")
	}

	promptTemplate := `You are an expert financial analyst specialized in technical analysis of stock charts.

Based on the following elements detected in the %s chart of %s:

%s%s%s
Please analyze:
1. Current price trend and momentum
2. Key support and resistance levels
3. Notable patterns or formations
4. Trading volume analysis if visible
5. Overall market sentiment based on indicators
6. Potential trading opportunities and risks

Your analysis should be data-driven, objective and based on the technical aspects.
Note: the response must be strictly within %d characters and in MARKDOWN format (use *bold* and - bullets only, no tables or headings) so that it can be sent as a chat message.`

	return fmt.Sprintf(promptTemplate, timeframeLabel(input.Timeframe), input.Ticker, detected.String(), news.String(), extra.String(), maxResponseLength)
}

// FormatPriceHistory renders bars (newest first) as a table of at most rows lines followed by
// summary statistics over every bar.
func FormatPriceHistory(bars []dto.PriceBar, rows int) string {
	if len(bars) == 0 {
		return "No historical data available.\n"
	}
	if rows <= 0 {
		rows = maxPriceRows
	}
	p := message.NewPrinter(language.English)

	var sb strings.Builder
	sb.WriteString("Date | Close Price | Volume\n")
	sb.WriteString("-----|------------|--------\n")
	for _, bar := range bars[:min(rows, len(bars))] {
		sb.WriteString(p.Sprintf("%s | $%.2f | %d\n", bar.Date.Format("2006-01-02"), bar.Close, bar.Volume))
	}

	newest, oldest := bars[0], bars[len(bars)-1]
	change := newest.Close - oldest.Close
	var changePct float64
	if oldest.Close != 0 {
		changePct = change / oldest.Close * 100
	}
	var total int64
	minVolume, maxVolume := bars[0].Volume, bars[0].Volume
	for _, bar := range bars {
		total += bar.Volume
		minVolume = min(minVolume, bar.Volume)
		maxVolume = max(maxVolume, bar.Volume)
	}

	sb.WriteString("\nSummary Statistics:\n")
	sb.WriteString(p.Sprintf("- Date Range: %s to %s\n", oldest.Date.Format("2006-01-02"), newest.Date.Format("2006-01-02")))
	sb.WriteString(p.Sprintf("- Price Change: $%.2f (%.2f%%)\n", change, changePct))
	sb.WriteString(p.Sprintf("- Average Volume: %.0f\n", float64(total)/float64(len(bars))))
	sb.WriteString(p.Sprintf("- Volume Range: %d to %d\n", minVolume, maxVolume))
	return sb.String()
}

func timeframeLabel(tf dto.Timeframe) string {
	switch tf {
	case dto.Timeframe1W:
		return "weekly"
	case dto.Timeframe1M:
		return "monthly"
	default:
		return "daily"
	}
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
