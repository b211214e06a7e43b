package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"golang-chart-insight/internal/insight/apperror"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestMapGenAIError(t *testing.T) {
	throttled := fmt.Errorf("generate: %w", genai.APIError{Code: 429, Message: "quota"})
	assert.Equal(t, apperror.KindRateLimited, apperror.KindOf(mapGenAIError("op", throttled)))

	failed := genai.APIError{Code: 500, Message: "internal"}
	assert.Equal(t, apperror.KindUpstreamUnavailable, apperror.KindOf(mapGenAIError("op", failed)))

	assert.Equal(t, apperror.KindUpstreamUnavailable, apperror.KindOf(mapGenAIError("op", errors.New("dial tcp: refused"))))
	assert.ErrorIs(t, mapGenAIError("op", context.Canceled), context.Canceled)
}

func TestGeminiText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "*Trend*"}, {Text: ": up"}}}},
		},
	}
	assert.Equal(t, "*Trend*: up", geminiText(resp))
	assert.Empty(t, geminiText(&genai.GenerateContentResponse{}))
}
