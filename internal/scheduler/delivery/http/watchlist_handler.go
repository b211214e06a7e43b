package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-chart-insight/internal/scheduler/dto"
	"golang-chart-insight/internal/scheduler/service"
	"golang-chart-insight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler handles HTTP requests for watchlists.
type WatchlistHandler struct {
	watchlistService service.WatchlistService
	logger           *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService service.WatchlistService, logger *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService, logger: logger}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateWatchlist)
	g.GET("", h.GetAllWatchlists)
	g.GET("/:id", h.GetWatchlistByID)
	g.PUT("/:id", h.UpdateWatchlist)
	g.DELETE("/:id", h.DeleteWatchlist)
}

// CreateWatchlist godoc
// @Summary Create a new watchlist
// @Description Schedule a recurring chart insight for a chat
// @Tags watchlists
// @Accept  json
// @Produce  json
// @Param   watchlist  body    dto.CreateWatchlistRequest   true    "Watchlist to create"
// @Success 201 {object} dto.WatchlistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists [post]
func (h *WatchlistHandler) CreateWatchlist(c echo.Context) error {
	var req dto.CreateWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.watchlistService.CreateWatchlist(c.Request().Context(), &req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetWatchlistByID godoc
// @Summary Get a watchlist by ID
// @Tags watchlists
// @Produce  json
// @Param   id  path    int true    "Watchlist ID"
// @Success 200 {object} dto.WatchlistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{id} [get]
func (h *WatchlistHandler) GetWatchlistByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid watchlist ID"})
	}

	resp, err := h.watchlistService.GetWatchlistByID(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAllWatchlists godoc
// @Summary Get all watchlists
// @Tags watchlists
// @Produce  json
// @Param   chat_id  query   int  false   "Only watchlists of this chat"
// @Success 200 {array} dto.WatchlistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists [get]
func (h *WatchlistHandler) GetAllWatchlists(c echo.Context) error {
	var param dto.GetWatchlistsParam
	if raw := c.QueryParam("chat_id"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid chat_id"})
		}
		param.ChatID = chatID
	}

	watchlists, err := h.watchlistService.GetAllWatchlists(c.Request().Context(), param)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get watchlists"})
	}
	return c.JSON(http.StatusOK, watchlists)
}

// UpdateWatchlist godoc
// @Summary Update an existing watchlist
// @Tags watchlists
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Watchlist ID"
// @Param   watchlist  body    dto.UpdateWatchlistRequest   true    "Watchlist changes"
// @Success 200 {object} dto.WatchlistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{id} [put]
func (h *WatchlistHandler) UpdateWatchlist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid watchlist ID"})
	}

	var req dto.UpdateWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.watchlistService.UpdateWatchlist(c.Request().Context(), id, &req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteWatchlist godoc
// @Summary Delete a watchlist
// @Tags watchlists
// @Param   id  path    int true    "Watchlist ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{id} [delete]
func (h *WatchlistHandler) DeleteWatchlist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid watchlist ID"})
	}

	if err := h.watchlistService.DeleteWatchlist(c.Request().Context(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// errorResponse maps service errors to status codes. The service layer already logs them.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, dto.ErrValidation):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, dto.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Watchlist not found"})
	default:
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
