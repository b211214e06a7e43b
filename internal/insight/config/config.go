package config

import (
	"errors"
	"fmt"
	"time"

	"golang-chart-insight/pkg/config"
)

// Bot holds the inbound handling settings.
type Bot struct {
	// Mode is either "polling" or "webhook".
	Mode           string        `mapstructure:"mode"`
	PollTimeout    int           `mapstructure:"poll_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// Cooldown suppresses repeats of the same query by the same user. Negative disables it.
	Cooldown       time.Duration `mapstructure:"cooldown"`
	MaxConcurrent  int           `mapstructure:"max_concurrent"`
	WebhookURL     string        `mapstructure:"webhook_url"`
	WebhookSecret  string        `mapstructure:"webhook_secret"`
	DisableAck     bool          `mapstructure:"disable_ack"`
	TimeLocation   string        `mapstructure:"time_location"`
	AllowedChatIDs []int64       `mapstructure:"allowed_chat_ids"`
	DisableHTTP    bool          `mapstructure:"disable_http"`
}

// Telegram holds the chat platform credentials.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	Debug    bool   `mapstructure:"debug"`
}

// Chart holds the chart rendering service configuration.
type Chart struct {
	config.Upstream `mapstructure:",squash"`
	Theme           string `mapstructure:"theme"`
	Width           int    `mapstructure:"width"`
	Height          int    `mapstructure:"height"`
	MaxImageBytes   int64  `mapstructure:"max_image_bytes"`
}

// OCR holds the text extraction configuration.
type OCR struct {
	// Provider is "ocrspace" or "tesseract".
	Provider        string `mapstructure:"provider"`
	config.Upstream `mapstructure:",squash"`
	Language        string `mapstructure:"language"`
	Engine          int    `mapstructure:"engine"`
	// MinConfidence drops tesseract results below this average word confidence (0..1).
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// AI holds configuration for AI providers.
type AI struct {
	// Provider is "deepseek", "openai" or "gemini".
	Provider          string  `mapstructure:"provider"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxResponseLength int     `mapstructure:"max_response_length"`
}

// OpenAI holds the configuration for OpenAI-compatible chat completion APIs.
type OpenAI struct {
	config.Upstream   `mapstructure:",squash"`
	Model             string `mapstructure:"model"`
	MaxTokenPerMinute int    `mapstructure:"max_token_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

// News holds the optional headline context configuration.
type News struct {
	Enabled      bool          `mapstructure:"enabled"`
	FeedURL      string        `mapstructure:"feed_url"`
	MaxHeadlines int           `mapstructure:"max_headlines"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// PriceHistory holds the optional daily price history context (Alpha Vantage).
type PriceHistory struct {
	Enabled         bool `mapstructure:"enabled"`
	config.Upstream `mapstructure:",squash"`
	// OutputSize is "compact" (last 100 sessions) or "full".
	OutputSize string `mapstructure:"output_size"`
}

// History toggles the request audit log.
type History struct {
	Enabled bool `mapstructure:"enabled"`
}

// Stream holds the watchlist stream consumer configuration.
type Stream struct {
	Enabled         bool          `mapstructure:"enabled"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RetryInterval   time.Duration `mapstructure:"retry_interval"`
	MaxIdleDuration time.Duration `mapstructure:"max_idle_duration"`
	MaxRetry        int           `mapstructure:"max_retry"`
}

// Config holds the full configuration for the bot service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Bot      Bot             `mapstructure:"bot"`
	Telegram Telegram        `mapstructure:"telegram"`
	Chart    Chart           `mapstructure:"chart"`
	OCR      OCR             `mapstructure:"ocr"`
	AI       AI              `mapstructure:"ai"`
	OpenAI   OpenAI          `mapstructure:"openai"`
	Gemini   Gemini          `mapstructure:"gemini"`
	News     News            `mapstructure:"news"`
	Prices   PriceHistory    `mapstructure:"price_history"`
	History  History         `mapstructure:"history"`
	Stream   Stream          `mapstructure:"stream"`
}

// Load loads the bot configuration from the given path and applies defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Bot.Mode == "" {
		c.Bot.Mode = "polling"
	}
	if c.Bot.PollTimeout == 0 {
		c.Bot.PollTimeout = 30
	}
	if c.Bot.RequestTimeout == 0 {
		c.Bot.RequestTimeout = 3 * time.Minute
	}
	if c.Bot.Cooldown == 0 {
		c.Bot.Cooldown = 30 * time.Second
	}
	if c.Bot.MaxConcurrent == 0 {
		c.Bot.MaxConcurrent = 16
	}
	if c.Chart.BaseURL == "" {
		c.Chart.BaseURL = "https://api.chartimage.com"
	}
	if c.Chart.Timeout == 0 {
		c.Chart.Timeout = 30 * time.Second
	}
	if c.Chart.MaxImageBytes == 0 {
		c.Chart.MaxImageBytes = 10 << 20
	}
	if c.OCR.Provider == "" {
		c.OCR.Provider = "ocrspace"
	}
	if c.OCR.BaseURL == "" {
		c.OCR.BaseURL = "https://api.ocr.space"
	}
	if c.OCR.Timeout == 0 {
		c.OCR.Timeout = 60 * time.Second
	}
	if c.OCR.Language == "" {
		c.OCR.Language = "eng"
	}
	if c.OCR.Engine == 0 {
		c.OCR.Engine = 2
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "deepseek"
	}
	if c.AI.MaxResponseLength == 0 {
		c.AI.MaxResponseLength = 4000
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.deepseek.com/v1/chat/completions"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "deepseek-chat"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 90 * time.Second
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = 90 * time.Second
	}
	if c.News.FeedURL == "" {
		c.News.FeedURL = "https://news.google.com/rss/search?q=%s+stock&hl=en-US&gl=US&ceid=US:en"
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 5
	}
	if c.News.MaxAge == 0 {
		c.News.MaxAge = 72 * time.Hour
	}
	if c.News.Timeout == 0 {
		c.News.Timeout = 10 * time.Second
	}
	if c.Prices.BaseURL == "" {
		c.Prices.BaseURL = "https://www.alphavantage.co"
	}
	if c.Prices.Timeout == 0 {
		c.Prices.Timeout = 15 * time.Second
	}
	if c.Prices.MaxRequestPerMinute == 0 {
		c.Prices.MaxRequestPerMinute = 5
	}
	if c.Prices.OutputSize == "" {
		c.Prices.OutputSize = "compact"
	}
	if c.Stream.Timeout == 0 {
		c.Stream.Timeout = c.Bot.RequestTimeout
	}
	if c.Stream.RetryInterval == 0 {
		c.Stream.RetryInterval = time.Minute
	}
	if c.Stream.MaxIdleDuration == 0 {
		c.Stream.MaxIdleDuration = 10 * time.Minute
	}
	if c.Stream.MaxRetry == 0 {
		c.Stream.MaxRetry = 3
	}
}

// Validate checks that every credential the selected providers need is present.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.BotToken == "" {
		errs = append(errs, errors.New("telegram.bot_token is required"))
	}
	if c.Chart.APIKey == "" {
		errs = append(errs, errors.New("chart.api_key is required"))
	}
	switch c.OCR.Provider {
	case "ocrspace":
		if c.OCR.APIKey == "" {
			errs = append(errs, errors.New("ocr.api_key is required for the ocrspace provider"))
		}
	case "tesseract":
	default:
		errs = append(errs, fmt.Errorf("unknown ocr.provider %q", c.OCR.Provider))
	}
	switch c.AI.Provider {
	case "deepseek", "openai":
		if c.OpenAI.APIKey == "" {
			errs = append(errs, fmt.Errorf("openai.api_key is required for the %s provider", c.AI.Provider))
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			errs = append(errs, errors.New("gemini.api_key is required for the gemini provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ai.provider %q", c.AI.Provider))
	}
	if c.Prices.Enabled && c.Prices.APIKey == "" {
		errs = append(errs, errors.New("price_history.api_key is required when price history is enabled"))
	}
	switch c.Bot.Mode {
	case "polling":
	case "webhook":
		if c.Bot.WebhookURL == "" {
			errs = append(errs, errors.New("bot.webhook_url is required in webhook mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown bot.mode %q", c.Bot.Mode))
	}
	return errors.Join(errs...)
}
