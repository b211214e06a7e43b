package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang-chart-insight/internal/insight/apperror"
	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"
	"golang-chart-insight/pkg/ratelimit"

	"golang.org/x/time/rate"
)

const maxPriceHistoryResponseBytes = 4 << 20

type alphaVantageRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewAlphaVantageRepository creates a PriceHistoryRepository backed by the Alpha Vantage daily series.
func NewAlphaVantageRepository(cfg *config.Config, log *logger.Logger) PriceHistoryRepository {
	return &alphaVantageRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Prices.Timeout,
		},
		requestLimiter: ratelimit.PerMinute(cfg.Prices.MaxRequestPerMinute),
	}
}

func (r *alphaVantageRepository) GetDailyHistory(ctx context.Context, ticker string) ([]dto.PriceBar, error) {
	const op = "prices.GetDailyHistory"

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if !dto.ValidTicker(ticker) {
		return nil, apperror.InvalidSymbol(op, fmt.Errorf("malformed ticker %q", ticker))
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", ticker)
	params.Set("outputsize", r.cfg.Prices.OutputSize)
	params.Set("apikey", r.cfg.Prices.APIKey)
	endpoint := strings.TrimRight(r.cfg.Prices.BaseURL, "/") + "/query?" + params.Encode()

	r.log.DebugContext(ctx, "Requesting daily price history", logger.StringField("ticker", ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create price history request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.WarnContext(ctx, "Received non-OK response from price history service",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("ticker", ticker),
		)
		return nil, statusError(op, resp, http.StatusNotFound)
	}

	body, err := readLimited(resp.Body, maxPriceHistoryResponseBytes)
	if err != nil {
		return nil, apperror.UpstreamUnavailable(op, err)
	}

	var payload dto.AlphaVantageDailyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("failed to decode price history: %w", err))
	}

	switch {
	case payload.ErrorMessage != "":
		return nil, apperror.InvalidSymbol(op, fmt.Errorf("price history: %s", payload.ErrorMessage))
	case payload.Note != "":
		return nil, apperror.RateLimited(op, fmt.Errorf("price history: %s", payload.Note))
	case payload.Information != "" && len(payload.TimeSeries) == 0:
		if isThrottleNotice(payload.Information) {
			return nil, apperror.RateLimited(op, fmt.Errorf("price history: %s", payload.Information))
		}
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("price history: %s", payload.Information))
	case len(payload.TimeSeries) == 0:
		return nil, apperror.InvalidSymbol(op, fmt.Errorf("no daily series for %s", ticker))
	}

	bars := make([]dto.PriceBar, 0, len(payload.TimeSeries))
	for day, quote := range payload.TimeSeries {
		bar, err := parseDailyBar(day, quote)
		if err != nil {
			r.log.DebugContext(ctx, "Skipping malformed price bar", logger.StringField("date", day), logger.ErrorField(err))
			continue
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.After(bars[j].Date) })

	r.log.DebugContext(ctx, "Price history fetched",
		logger.StringField("ticker", ticker),
		logger.IntField("bars", len(bars)),
	)
	return bars, nil
}

func parseDailyBar(day string, quote dto.AlphaVantageDailyBar) (dto.PriceBar, error) {
	date, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return dto.PriceBar{}, fmt.Errorf("invalid date: %w", err)
	}
	closePrice, err := strconv.ParseFloat(strings.TrimSpace(quote.Close), 64)
	if err != nil {
		return dto.PriceBar{}, fmt.Errorf("invalid close: %w", err)
	}
	volume, err := strconv.ParseInt(strings.TrimSpace(quote.Volume), 10, 64)
	if err != nil {
		return dto.PriceBar{}, fmt.Errorf("invalid volume: %w", err)
	}
	return dto.PriceBar{Date: date, Close: closePrice, Volume: volume}, nil
}

func isThrottleNotice(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "call frequency") || strings.Contains(msg, "requests per")
}
