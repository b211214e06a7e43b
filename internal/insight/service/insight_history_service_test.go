package service

import (
	"context"
	"errors"
	"testing"

	"golang-chart-insight/internal/entity"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightHistoryServiceGetRecent(t *testing.T) {
	repo := &mockInsightRequestRepository{}
	repo.On("FindRecent", context.Background(), dto.GetInsightHistoryParam{Ticker: "AAPL", Limit: 5}).
		Return([]entity.InsightRequest{
			{ID: 2, RequestID: "b", Ticker: "AAPL", Status: entity.InsightStatusFailed, ErrorKind: "InvalidSymbol"},
			{ID: 1, RequestID: "a", Ticker: "AAPL", Status: entity.InsightStatusCompleted, Summary: "up"},
		}, nil).Once()

	svc := NewInsightHistoryService(repo, logger.NewNop())
	got, err := svc.GetRecent(context.Background(), dto.GetInsightHistoryParam{Ticker: " aapl ", Limit: 5})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "failed", got[0].Status)
	assert.Equal(t, "InvalidSymbol", got[0].ErrorKind)
	assert.Equal(t, "up", got[1].Summary)
	repo.AssertExpectations(t)
}

func TestInsightHistoryServiceError(t *testing.T) {
	repo := &mockInsightRequestRepository{}
	repo.On("FindRecent", context.Background(), dto.GetInsightHistoryParam{}).Return(nil, errors.New("db down")).Once()

	_, err := NewInsightHistoryService(repo, logger.NewNop()).GetRecent(context.Background(), dto.GetInsightHistoryParam{})
	assert.Error(t, err)
}
