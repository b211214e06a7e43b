// Package bot handles inbound Telegram updates, from long polling or the webhook.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/internal/insight/parser"
	"golang-chart-insight/internal/insight/service"
	"golang-chart-insight/pkg/logger"
	"golang-chart-insight/pkg/telegram"
	"golang-chart-insight/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// UpdateHandler turns chat messages into pipeline runs. It owns the lifetime of the runs it
// starts, so a webhook request returning early never cancels one.
type UpdateHandler struct {
	cfg      *config.Config
	log      *logger.Logger
	pipeline service.PipelineService
	gateway  telegram.Gateway
	cooldown *cache.Cache
	allowed  map[int64]struct{}
	sem      chan struct{}

	runCtx    context.Context
	cancelRun context.CancelFunc
	wg        sync.WaitGroup
}

func NewUpdateHandler(cfg *config.Config, log *logger.Logger, pipeline service.PipelineService, gateway telegram.Gateway) *UpdateHandler {
	allowed := make(map[int64]struct{}, len(cfg.Bot.AllowedChatIDs))
	for _, id := range cfg.Bot.AllowedChatIDs {
		allowed[id] = struct{}{}
	}
	maxConcurrent := cfg.Bot.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	runCtx, cancel := context.WithCancel(context.Background())
	return &UpdateHandler{
		cfg:       cfg,
		log:       log,
		pipeline:  pipeline,
		gateway:   gateway,
		cooldown:  cache.New(cfg.Bot.Cooldown, time.Minute),
		allowed:   allowed,
		sem:       make(chan struct{}, maxConcurrent),
		runCtx:    runCtx,
		cancelRun: cancel,
	}
}

// HandleUpdate processes one update. Replies that need no pipeline are sent before it
// returns; stock queries are started in the background.
func (h *UpdateHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID
	if !h.isAllowed(chatID) {
		h.log.Warn("Ignoring message from chat outside the allow list", logger.Field("chat_id", chatID))
		return
	}

	cmd, err := parser.ParseMessage(msg.Text)
	// A bare upper-case word ("OK", "LOL") in a group is talk, not a request for a paid run.
	if !cmd.Explicit && !msg.Chat.IsPrivate() {
		return
	}
	if err != nil {
		if errors.Is(err, parser.ErrEmptyMessage) {
			return
		}
		h.reply(ctx, chatID, parseErrorMessage(err))
		return
	}

	switch cmd.Intent {
	case parser.IntentStart:
		h.reply(ctx, chatID, telegram.FormatWelcomeMessage(parser.Usage()))
	case parser.IntentHelp:
		h.reply(ctx, chatID, parser.Usage())
	case parser.IntentQuery:
		h.dispatch(ctx, msg, cmd)
	default:
		// Group chats carry plenty of unrelated talk; only private chats get the hint.
		if msg.Chat.IsPrivate() {
			h.reply(ctx, chatID, parser.Usage())
		}
	}
}

func (h *UpdateHandler) dispatch(ctx context.Context, msg *tgbotapi.Message, cmd parser.Command) {
	requesterID := strconv.FormatInt(msg.Chat.ID, 10)
	if msg.From != nil {
		requesterID = strconv.FormatInt(msg.From.ID, 10)
	}

	// The key marks a run in flight. It is removed when the run ends and Cooldown only bounds
	// how long a lost run can block repeats.
	key := fmt.Sprintf("%s:%s:%s", requesterID, cmd.Ticker, cmd.Timeframe)
	if h.cfg.Bot.Cooldown > 0 {
		if err := h.cooldown.Add(key, struct{}{}, h.cfg.Bot.Cooldown); err != nil {
			h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Already analyzing %s (%s), the result is on its way.", cmd.Ticker, cmd.Timeframe))
			return
		}
	}

	req := &dto.Request{
		ID:          uuid.NewString(),
		Ticker:      cmd.Ticker,
		Timeframe:   cmd.Timeframe,
		RequesterID: requesterID,
		ChatID:      msg.Chat.ID,
		Source:      dto.SourceChat,
		ReceivedAt:  msg.Time(),
		Context:     cmd.Context,
	}

	h.wg.Add(1)
	utils.GoSafe(func() {
		defer h.wg.Done()
		defer h.cooldown.Delete(key)
		select {
		case h.sem <- struct{}{}:
		case <-h.runCtx.Done():
			return
		}
		defer func() { <-h.sem }()

		runCtx, cancel := context.WithTimeout(h.runCtx, h.cfg.Bot.RequestTimeout)
		defer cancel()
		// Run logs and replies on failure itself.
		_ = h.pipeline.Run(runCtx, req)
	})
}

// Shutdown waits for in-flight runs. When ctx expires first the remaining runs are cancelled.
func (h *UpdateHandler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		h.cancelRun()
		return nil
	case <-ctx.Done():
		h.cancelRun()
		<-done
		return ctx.Err()
	}
}

func (h *UpdateHandler) isAllowed(chatID int64) bool {
	if len(h.allowed) == 0 {
		return true
	}
	_, ok := h.allowed[chatID]
	return ok
}

func (h *UpdateHandler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.gateway.SendText(ctx, chatID, text); err != nil {
		h.log.Error("Failed to send reply", logger.ErrorField(err), logger.Field("chat_id", chatID))
	}
}

func parseErrorMessage(err error) string {
	switch {
	case errors.Is(err, parser.ErrMissingTicker):
		return "Please include a ticker symbol.\n\n" + parser.Usage()
	case errors.Is(err, parser.ErrInvalidTicker):
		return "That doesn't look like a ticker symbol. Use up to 10 characters, e.g. AAPL, BRK.B or ^GSPC."
	case errors.Is(err, parser.ErrInvalidTimeframe):
		return fmt.Sprintf("Unsupported timeframe. Use one of %s, %s or %s.", dto.Timeframe1D, dto.Timeframe1W, dto.Timeframe1M)
	default:
		return parser.Usage()
	}
}
