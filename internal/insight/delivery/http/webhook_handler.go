package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"golang-chart-insight/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
)

// secretTokenHeader carries the secret registered with setWebhook.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateHandler consumes decoded Telegram updates.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// WebhookHandler receives Telegram updates pushed to the webhook URL.
type WebhookHandler struct {
	handler UpdateHandler
	secret  string
	logger  *logger.Logger
}

// NewWebhookHandler creates a new WebhookHandler. An empty secret disables the header check.
func NewWebhookHandler(handler UpdateHandler, secret string, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{handler: handler, secret: secret, logger: logger}
}

// RegisterRoutes registers the webhook route on the Echo instance.
func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhook", h.ReceiveUpdate)
}

// ReceiveUpdate always answers 200 for well-formed updates so Telegram does not redeliver them.
func (h *WebhookHandler) ReceiveUpdate(c echo.Context) error {
	if h.secret != "" {
		got := c.Request().Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			h.logger.Warn("Rejected webhook call with a wrong secret token", logger.StringField("remote_ip", c.RealIP()))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid secret token"})
		}
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request().Body).Decode(&update); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid update payload"})
	}

	h.handler.HandleUpdate(c.Request().Context(), update)
	return c.NoContent(http.StatusOK)
}
