package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
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

const maxOCRResponseBytes = 4 << 20

type ocrSpaceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewOCRSpaceRepository creates an OCRRepository backed by the OCR.space parse API.
func NewOCRSpaceRepository(cfg *config.Config, log *logger.Logger) OCRRepository {
	return &ocrSpaceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.OCR.Timeout,
		},
		requestLimiter: ratelimit.PerMinute(cfg.OCR.MaxRequestPerMinute),
	}
}

func (r *ocrSpaceRepository) ExtractText(ctx context.Context, asset *dto.ChartAsset) (*dto.ExtractedText, error) {
	const op = "ocr.ExtractText"

	if asset == nil || len(asset.Image) == 0 {
		return nil, apperror.RecognitionFailed(op, fmt.Errorf("no image to recognize"))
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	form := url.Values{}
	form.Set("base64Image", fmt.Sprintf("data:%s;base64,%s", mimeType(asset.Format), base64.StdEncoding.EncodeToString(asset.Image)))
	form.Set("language", r.cfg.OCR.Language)
	form.Set("isOverlayRequired", "false")
	form.Set("filetype", strings.ToUpper(string(asset.Format)))
	form.Set("detectOrientation", "true")
	form.Set("scale", "true")
	form.Set("OCREngine", strconv.Itoa(r.cfg.OCR.Engine))

	endpoint := strings.TrimRight(r.cfg.OCR.BaseURL, "/") + "/parse/image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", r.cfg.OCR.APIKey)

	r.log.DebugContext(ctx, "Sending image to OCR.space",
		logger.IntField("bytes", len(asset.Image)),
		logger.IntField("engine", r.cfg.OCR.Engine),
	)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.WarnContext(ctx, "Received non-OK response from OCR.space", logger.IntField("status_code", resp.StatusCode))
		return nil, statusError(op, resp)
	}

	body, err := readLimited(resp.Body, maxOCRResponseBytes)
	if err != nil {
		return nil, apperror.UpstreamUnavailable(op, err)
	}

	var result dto.OCRSpaceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("failed to decode ocr response: %w", err))
	}

	// Exit code 1 is a full parse and 2 a partial one. Anything else carries no usable text.
	if result.IsErroredOnProcessing || (result.OCRExitCode != 1 && result.OCRExitCode != 2) {
		return nil, apperror.RecognitionFailed(op, fmt.Errorf("ocr exit code %d: %s", result.OCRExitCode, result.ErrorMessage.String()))
	}

	parts := make([]string, 0, len(result.ParsedResults))
	for _, parsed := range result.ParsedResults {
		if text := normalizeOCRText(parsed.ParsedText); text != "" {
			parts = append(parts, text)
		}
	}
	text := strings.Join(parts, "\n")
	if text == "" {
		return nil, apperror.RecognitionFailed(op, fmt.Errorf("no text found in chart"))
	}

	r.log.DebugContext(ctx, "OCR finished", logger.IntField("characters", len(text)))

	return &dto.ExtractedText{RawText: text}, nil
}

// normalizeOCRText trims every line and drops the empty ones.
func normalizeOCRText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
