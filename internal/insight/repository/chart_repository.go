package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang-chart-insight/internal/insight/apperror"
	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"
	"golang-chart-insight/pkg/ratelimit"

	"golang.org/x/time/rate"
)

type chartImageRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewChartImageRepository creates a ChartRepository backed by the chartimage.com API.
func NewChartImageRepository(cfg *config.Config, log *logger.Logger) ChartRepository {
	return &chartImageRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Chart.Timeout,
		},
		requestLimiter: ratelimit.PerMinute(cfg.Chart.MaxRequestPerMinute),
	}
}

func (r *chartImageRepository) FetchChart(ctx context.Context, ticker string, timeframe dto.Timeframe) (*dto.ChartAsset, error) {
	const op = "chart.FetchChart"

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if !dto.ValidTicker(ticker) {
		return nil, apperror.InvalidSymbol(op, fmt.Errorf("malformed ticker %q", ticker))
	}
	if !timeframe.Valid() {
		timeframe = dto.DefaultTimeframe
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	endpoint := r.chartURL(ticker, timeframe)
	r.log.DebugContext(ctx, "Requesting chart",
		logger.StringField("ticker", ticker),
		logger.StringField("timeframe", string(timeframe)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart request: %w", err)
	}
	req.Header.Set("Accept", "image/png, image/*, application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.WarnContext(ctx, "Received non-OK response from chart service",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("ticker", ticker),
		)
		return nil, statusError(op, resp, http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity)
	}

	body, err := readLimited(resp.Body, r.cfg.Chart.MaxImageBytes)
	if err != nil {
		return nil, apperror.UpstreamUnavailable(op, err)
	}

	sourceURL := endpoint
	if isJSON(resp.Header.Get("Content-Type"), body) {
		var payload dto.ChartImageResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("failed to decode chart response: %w", err))
		}
		if payload.ChartURL == "" {
			if payload.Error != "" {
				return nil, apperror.InvalidSymbol(op, fmt.Errorf("chart service: %s", payload.Error))
			}
			return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("chart response has no chart_url"))
		}
		sourceURL = payload.ChartURL
		body, err = r.download(ctx, payload.ChartURL)
		if err != nil {
			return nil, err
		}
	}

	format, width, height, err := decodeChartImage(body)
	if err != nil {
		return nil, apperror.UpstreamUnavailable(op, err)
	}

	r.log.DebugContext(ctx, "Chart fetched",
		logger.StringField("ticker", ticker),
		logger.StringField("format", string(format)),
		logger.IntField("bytes", len(body)),
	)

	return &dto.ChartAsset{
		Image:     body,
		Format:    format,
		Width:     width,
		Height:    height,
		SourceURL: redactAPIKey(sourceURL),
	}, nil
}

func (r *chartImageRepository) chartURL(ticker string, timeframe dto.Timeframe) string {
	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("interval", timeframe.Interval())
	params.Set("apikey", r.cfg.Chart.APIKey)
	if r.cfg.Chart.Theme != "" {
		params.Set("theme", r.cfg.Chart.Theme)
	}
	if r.cfg.Chart.Width > 0 {
		params.Set("width", strconv.Itoa(r.cfg.Chart.Width))
	}
	if r.cfg.Chart.Height > 0 {
		params.Set("height", strconv.Itoa(r.cfg.Chart.Height))
	}
	return strings.TrimRight(r.cfg.Chart.BaseURL, "/") + "/v1/chart?" + params.Encode()
}

// download fetches the rendered image the chart service pointed at.
func (r *chartImageRepository) download(ctx context.Context, imageURL string) ([]byte, error) {
	const op = "chart.download"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("invalid chart_url: %w", err))
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(op, resp)
	}
	body, err := readLimited(resp.Body, r.cfg.Chart.MaxImageBytes)
	if err != nil {
		return nil, apperror.UpstreamUnavailable(op, err)
	}
	return body, nil
}

func isJSON(contentType string, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
			return true
		}
		if strings.HasPrefix(mediaType, "image/") {
			return false
		}
	}
	trimmed := strings.TrimSpace(string(body[:min(len(body), 16)]))
	return strings.HasPrefix(trimmed, "{")
}

func redactAPIKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
