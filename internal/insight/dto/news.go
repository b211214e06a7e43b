package dto

import "time"

// Headline is one news item used as extra prompt context.
type Headline struct {
	Title       string
	Source      string
	PublishedAt time.Time
	Snippet     string
}

// PromptInput is everything the insight generator embeds in its prompt.
type PromptInput struct {
	Ticker    string
	Timeframe Timeframe
	ChartText string
	Headlines []Headline
	// PriceHistory is ordered newest first.
	PriceHistory []PriceBar
	// Context is the requester's own question, if any.
	Context string
}
