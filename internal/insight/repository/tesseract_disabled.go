//go:build !tesseract

package repository

import (
	"errors"

	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/pkg/logger"
)

// NewTesseractRepository is unavailable unless the binary is built with -tags tesseract.
func NewTesseractRepository(cfg *config.Config, log *logger.Logger) (OCRRepository, error) {
	return nil, errors.New("tesseract provider requires building with -tags tesseract")
}
