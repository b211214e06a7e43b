package bot

import (
	"context"

	"golang-chart-insight/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateSource is the long polling side of the Telegram client.
type UpdateSource interface {
	Updates(timeout int) (tgbotapi.UpdatesChannel, error)
	StopUpdates()
}

// Poller feeds long-polled updates to an UpdateHandler.
type Poller struct {
	source  UpdateSource
	handler *UpdateHandler
	log     *logger.Logger
	timeout int
}

func NewPoller(source UpdateSource, handler *UpdateHandler, log *logger.Logger, timeout int) *Poller {
	return &Poller{source: source, handler: handler, log: log, timeout: timeout}
}

// Run blocks until ctx is done or the update channel closes.
func (p *Poller) Run(ctx context.Context) error {
	updates, err := p.source.Updates(p.timeout)
	if err != nil {
		return err
	}
	p.log.Info("Long polling started", logger.IntField("timeout", p.timeout))

	for {
		select {
		case <-ctx.Done():
			p.source.StopUpdates()
			p.log.Info("Long polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			p.handler.HandleUpdate(ctx, update)
		}
	}
}
