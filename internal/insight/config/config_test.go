package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Telegram.BotToken = "token"
	cfg.Chart.APIKey = "chart"
	cfg.OCR.APIKey = "ocr"
	cfg.OpenAI.APIKey = "ai"
	cfg.applyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, "polling", cfg.Bot.Mode)
	assert.Equal(t, 30*time.Second, cfg.Bot.Cooldown)
	assert.Equal(t, "ocrspace", cfg.OCR.Provider)
	assert.Equal(t, 2, cfg.OCR.Engine)
	assert.Equal(t, "deepseek", cfg.AI.Provider)
	assert.Equal(t, "deepseek-chat", cfg.OpenAI.Model)
	assert.Equal(t, 4000, cfg.AI.MaxResponseLength)
	assert.Equal(t, cfg.Bot.RequestTimeout, cfg.Stream.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestValidateReportsEveryMissingCredential(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.bot_token")
	assert.Contains(t, err.Error(), "chart.api_key")
	assert.Contains(t, err.Error(), "ocr.api_key")
	assert.Contains(t, err.Error(), "openai.api_key")
}

func TestValidateProviderSpecificCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.OCR.Provider = "tesseract"
	cfg.OCR.APIKey = ""
	cfg.AI.Provider = "gemini"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini.api_key")
	assert.NotContains(t, err.Error(), "ocr.api_key")

	cfg.Gemini.APIKey = "g"
	assert.NoError(t, cfg.Validate())

	cfg.Bot.Mode = "webhook"
	assert.ErrorContains(t, cfg.Validate(), "bot.webhook_url")

	cfg.AI.Provider = "llama"
	assert.ErrorContains(t, cfg.Validate(), `unknown ai.provider "llama"`)
}

func TestPriceHistoryDefaultsAndValidation(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "https://www.alphavantage.co", cfg.Prices.BaseURL)
	assert.Equal(t, "compact", cfg.Prices.OutputSize)
	assert.Equal(t, 5, cfg.Prices.MaxRequestPerMinute)
	assert.NoError(t, cfg.Validate())

	cfg.Prices.Enabled = true
	assert.ErrorContains(t, cfg.Validate(), "price_history.api_key")

	cfg.Prices.APIKey = "av"
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config-bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bot:
  mode: polling
  cooldown: 1m
chart:
  api_key: from-file
ocr:
  api_key: ocr
openai:
  api_key: ai
`), 0o600))
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("CHART_API_KEY", "chart-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "chart-env", cfg.Chart.APIKey)
	assert.Equal(t, time.Minute, cfg.Bot.Cooldown)
}
