//go:build tesseract

package repository

import (
	"context"
	"fmt"
	"strings"

	"golang-chart-insight/internal/insight/apperror"
	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/dto"
	"golang-chart-insight/pkg/logger"

	"github.com/otiai10/gosseract/v2"
)

type tesseractRepository struct {
	cfg *config.Config
	log *logger.Logger
}

// NewTesseractRepository creates an OCRRepository that runs the local tesseract engine.
// Each call uses its own gosseract client because a client is not safe for concurrent use.
func NewTesseractRepository(cfg *config.Config, log *logger.Logger) (OCRRepository, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(strings.Split(cfg.OCR.Language, "+")...); err != nil {
		return nil, fmt.Errorf("failed to set tesseract language: %w", err)
	}
	return &tesseractRepository{cfg: cfg, log: log}, nil
}

func (r *tesseractRepository) ExtractText(ctx context.Context, asset *dto.ChartAsset) (*dto.ExtractedText, error) {
	const op = "ocr.ExtractText"

	if asset == nil || len(asset.Image) == 0 {
		return nil, apperror.RecognitionFailed(op, fmt.Errorf("no image to recognize"))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(r.cfg.OCR.Language, "+")...); err != nil {
		return nil, apperror.UpstreamUnavailable(op, fmt.Errorf("failed to set language: %w", err))
	}
	if err := client.SetImageFromBytes(asset.Image); err != nil {
		return nil, apperror.RecognitionFailed(op, fmt.Errorf("failed to load image: %w", err))
	}

	raw, err := client.Text()
	if err != nil {
		return nil, apperror.RecognitionFailed(op, fmt.Errorf("failed to extract text: %w", err))
	}
	text := normalizeOCRText(raw)
	if text == "" {
		return nil, apperror.RecognitionFailed(op, fmt.Errorf("no text found in chart"))
	}

	var confidence *float64
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		r.log.WarnContext(ctx, "Failed to read word confidence", logger.ErrorField(err))
	} else if len(boxes) > 0 {
		var total float64
		for _, box := range boxes {
			total += box.Confidence
		}
		avg := total / float64(len(boxes)) / 100
		confidence = &avg
		if r.cfg.OCR.MinConfidence > 0 && avg < r.cfg.OCR.MinConfidence {
			return nil, apperror.RecognitionFailed(op, fmt.Errorf("average word confidence %.2f below %.2f", avg, r.cfg.OCR.MinConfidence))
		}
	}

	r.log.DebugContext(ctx, "Tesseract finished", logger.IntField("characters", len(text)))

	return &dto.ExtractedText{RawText: text, Confidence: confidence}, nil
}
