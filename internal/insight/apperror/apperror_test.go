package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("fetch chart: %w", InvalidSymbol("chart.fetch", errors.New("404 not found")))

	assert.ErrorIs(t, err, ErrInvalidSymbol)
	assert.NotErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, KindInvalidSymbol, KindOf(err))
}

func TestUnwrapReachesCause(t *testing.T) {
	err := UpstreamUnavailable("ocr.extract", context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "chart.fetch: RateLimited: slow down", RateLimited("chart.fetch", errors.New("slow down")).Error())
	assert.Equal(t, "ocr.extract: RecognitionFailed", RecognitionFailed("ocr.extract", nil).Error())
	assert.Equal(t, "InvalidSymbol", ErrInvalidSymbol.Error())
}

func TestKindOfUntyped(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid symbol", ErrInvalidSymbol, `I couldn't find a chart for "ZZZZ". Please check the ticker symbol and try again.`},
		{"unavailable", ErrUpstreamUnavailable, "One of the data services is unavailable right now. Please try again in a few minutes."},
		{"recognition", ErrRecognitionFailed, "I couldn't read any text from the ZZZZ chart, so there is nothing to analyze."},
		{"rate limited", ErrRateLimited, "Too many requests right now. Please wait a minute and try again."},
		{"unknown", errors.New("boom"), "Error analyzing ZZZZ. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, "ZZZZ"))
		})
	}
}
