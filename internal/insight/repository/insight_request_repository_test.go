package repository

import (
	"context"
	"testing"

	"golang-chart-insight/internal/entity"
	"golang-chart-insight/internal/insight/dto"

	"github.com/stretchr/testify/assert"
)

func TestHistoryLimit(t *testing.T) {
	assert.Equal(t, defaultHistoryLimit, historyLimit(0))
	assert.Equal(t, 5, historyLimit(5))
	assert.Equal(t, maxHistoryLimit, historyLimit(1000))
}

func TestNoopInsightRequestRepository(t *testing.T) {
	repo := NewNoopInsightRequestRepository()
	assert.NoError(t, repo.Create(context.Background(), &entity.InsightRequest{}))
	rows, err := repo.FindRecent(context.Background(), dto.GetInsightHistoryParam{})
	assert.NoError(t, err)
	assert.Empty(t, rows)
}
