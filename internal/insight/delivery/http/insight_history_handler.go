package http

import (
	"net/http"
	"strconv"

	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/internal/insight/service"
	"golang-chart-insight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// InsightHistoryHandler handles HTTP requests for recorded pipeline runs.
type InsightHistoryHandler struct {
	historyService service.InsightHistoryService
	logger         *logger.Logger
}

// NewInsightHistoryHandler creates a new InsightHistoryHandler.
func NewInsightHistoryHandler(historyService service.InsightHistoryService, logger *logger.Logger) *InsightHistoryHandler {
	return &InsightHistoryHandler{historyService: historyService, logger: logger}
}

// RegisterRoutes registers the insight routes to the Echo group.
func (h *InsightHistoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentInsights)
}

// GetRecentInsights godoc
// @Summary List recent insight requests
// @Description List recorded chart insight runs, newest first
// @Tags insights
// @Produce  json
// @Param   ticker   query   string  false   "Ticker symbol"
// @Param   chat_id  query   int     false   "Chat ID"
// @Param   limit    query   int     false   "Maximum rows (default 20, max 100)"
// @Success 200 {array} dto.InsightHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /insights [get]
func (h *InsightHistoryHandler) GetRecentInsights(c echo.Context) error {
	param := dto.GetInsightHistoryParam{Ticker: c.QueryParam("ticker")}

	if raw := c.QueryParam("chat_id"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid chat_id"})
		}
		param.ChatID = chatID
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		param.Limit = limit
	}

	rows, err := h.historyService.GetRecent(c.Request().Context(), param)
	if err != nil {
		// The service layer already logs the error
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get insight history"})
	}
	return c.JSON(http.StatusOK, rows)
}
