package bot

import (
	"context"
	"testing"
	"time"

	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ch      chan tgbotapi.Update
	stopped bool
}

func (f *fakeSource) Updates(timeout int) (tgbotapi.UpdatesChannel, error) {
	return f.ch, nil
}

func (f *fakeSource) StopUpdates() { f.stopped = true }

func TestPollerFeedsHandlerUntilCancelled(t *testing.T) {
	pipeline := &mockPipeline{}
	done := make(chan struct{})
	pipeline.On("Run", mock.Anything, mock.MatchedBy(func(req *dto.Request) bool { return req.Ticker == "MSFT" })).
		Run(func(mock.Arguments) { close(done) }).Return(nil).Once()

	h := NewUpdateHandler(testConfig(), logger.NewNop(), pipeline, &mockGateway{})
	source := &fakeSource{ch: make(chan tgbotapi.Update, 1)}
	source.ch <- textUpdate(10, 42, "private", "/stock MSFT")

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- NewPoller(source, h, logger.NewNop(), 30).Run(ctx) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline was not started")
	}
	cancel()
	require.NoError(t, <-errCh)
	assert.True(t, source.stopped)
	shutdown(t, h)
}
