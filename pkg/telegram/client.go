package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-chart-insight/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxRetryAfter bounds how long a send waits when Telegram asks the bot to slow down.
const maxRetryAfter = 10 * time.Second

// Gateway is the outbound side of the chat platform.
type Gateway interface {
	// SendText sends plain text without any parse mode.
	SendText(ctx context.Context, chatID int64, text string) error
	// SendMarkdown sends Markdown text and resends it as plain text when Telegram rejects the markup.
	SendMarkdown(ctx context.Context, chatID int64, text string) error
	// SendPhoto uploads image with a Markdown caption.
	SendPhoto(ctx context.Context, chatID int64, fileName string, image []byte, caption string) error
	// SendChatAction shows a transient status such as "upload_photo" to the chat.
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

// Client is a Gateway backed by the Telegram Bot API. It also owns the inbound update feed.
type Client struct {
	bot *tgbotapi.BotAPI
	log *logger.Logger
}

// NewClient creates a new Telegram client and verifies the token with getMe.
func NewClient(botToken string, debug bool, log *logger.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	bot.Debug = debug
	return &Client{bot: bot, log: log}, nil
}

// Username is the bot's @handle without the leading @.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Updates starts long polling. Any registered webhook is removed first because Telegram
// refuses getUpdates while one is set.
func (c *Client) Updates(timeout int) (tgbotapi.UpdatesChannel, error) {
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return nil, fmt.Errorf("failed to delete webhook: %w", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	u.AllowedUpdates = []string{"message"}
	return c.bot.GetUpdatesChan(u), nil
}

// StopUpdates stops the long polling goroutine and closes the updates channel.
func (c *Client) StopUpdates() {
	c.bot.StopReceivingUpdates()
}

// SetWebhook registers url with Telegram. A non-empty secret is echoed back by Telegram in the
// X-Telegram-Bot-Api-Secret-Token header of every delivery.
func (c *Client) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	if err := params.AddInterface("allowed_updates", []string{"message"}); err != nil {
		return err
	}
	resp, err := c.bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("failed to set webhook: %s", resp.Description)
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	return c.send(ctx, msg)
}

func (c *Client) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	err := c.send(ctx, msg)
	if isParseError(err) {
		c.log.WarnContext(ctx, "Markdown rejected, resending as plain text", logger.ErrorField(err))
		msg.ParseMode = ""
		return c.send(ctx, msg)
	}
	return err
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, fileName string, image []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: image})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	err := c.send(ctx, photo)
	if isParseError(err) {
		c.log.WarnContext(ctx, "Caption markdown rejected, resending as plain text", logger.ErrorField(err))
		photo.ParseMode = ""
		return c.send(ctx, photo)
	}
	return err
}

func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.bot.Request(tgbotapi.NewChatAction(chatID, action))
	return err
}

func (c *Client) send(ctx context.Context, msg tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.bot.Send(msg)
	if wait, ok := retryAfter(err); ok {
		c.log.WarnContext(ctx, "Telegram flood control, retrying", logger.Field("retry_after", wait))
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		_, err = c.bot.Send(msg)
	}
	return err
}

func isParseError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "can't parse entities")
}

func retryAfter(err error) (time.Duration, bool) {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) || tgErr.RetryAfter <= 0 {
		return 0, false
	}
	wait := time.Duration(tgErr.RetryAfter) * time.Second
	if wait > maxRetryAfter {
		return 0, false
	}
	return wait, true
}
