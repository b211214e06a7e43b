package repository

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"golang-chart-insight/internal/insight/config"

	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Chart.BaseURL = baseURL
	cfg.Chart.APIKey = "chart-key"
	cfg.Chart.Timeout = 5 * time.Second
	cfg.Chart.MaxImageBytes = 1 << 20
	cfg.OCR.BaseURL = baseURL
	cfg.OCR.APIKey = "ocr-key"
	cfg.OCR.Timeout = 5 * time.Second
	cfg.OCR.Language = "eng"
	cfg.OCR.Engine = 2
	cfg.OpenAI.BaseURL = baseURL + "/v1/chat/completions"
	cfg.OpenAI.APIKey = "ai-key"
	cfg.OpenAI.Model = "deepseek-chat"
	cfg.OpenAI.Timeout = 5 * time.Second
	cfg.AI.Temperature = 0.7
	cfg.AI.MaxResponseLength = 4000
	cfg.News.FeedURL = baseURL + "/rss?q=%s"
	cfg.News.MaxHeadlines = 2
	cfg.News.MaxAge = 72 * time.Hour
	cfg.News.Timeout = 5 * time.Second
	cfg.Prices.BaseURL = baseURL
	cfg.Prices.APIKey = "av-key"
	cfg.Prices.Timeout = 5 * time.Second
	cfg.Prices.OutputSize = "compact"
	return cfg
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
