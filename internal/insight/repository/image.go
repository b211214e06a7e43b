package repository

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang-chart-insight/internal/insight/dto"

	_ "golang.org/x/image/webp"
)

// decodeChartImage checks that data is a decodable image and reports its format and size.
func decodeChartImage(data []byte) (dto.ImageFormat, int, int, error) {
	if len(data) == 0 {
		return "", 0, 0, fmt.Errorf("empty image body")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to decode chart image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return "", 0, 0, fmt.Errorf("chart image has zero size %dx%d", cfg.Width, cfg.Height)
	}
	return dto.ImageFormat(format), cfg.Width, cfg.Height, nil
}

func mimeType(format dto.ImageFormat) string {
	switch format {
	case dto.ImageFormatJPEG:
		return "image/jpeg"
	case dto.ImageFormatGIF:
		return "image/gif"
	case dto.ImageFormatWEBP:
		return "image/webp"
	default:
		return "image/png"
	}
}
