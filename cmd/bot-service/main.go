package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-chart-insight/internal/insight/config"
	"golang-chart-insight/internal/insight/delivery/bot"
	"golang-chart-insight/internal/insight/delivery/consumer"
	delivery "golang-chart-insight/internal/insight/delivery/http"
	_ "golang-chart-insight/internal/insight/docs"
	"golang-chart-insight/internal/insight/repository"
	"golang-chart-insight/internal/insight/service"
	"golang-chart-insight/pkg/common"
	"golang-chart-insight/pkg/logger"
	"golang-chart-insight/pkg/postgres"
	"golang-chart-insight/pkg/redis"
	"golang-chart-insight/pkg/telegram"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the chart insight bot",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already carry the credentials.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Bot Service",
		logger.Field("name", cfg.App.Name),
		logger.StringField("mode", cfg.Bot.Mode),
		logger.StringField("ocr_provider", cfg.OCR.Provider),
		logger.StringField("ai_provider", cfg.AI.Provider))

	// Request history is optional; without a database the pipeline records nothing.
	var historyRepo repository.InsightRequestRepository
	if cfg.History.Enabled {
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Database.LogLevel,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			defer sqlDB.Close()
		}
		historyRepo = repository.NewInsightRequestRepository(db.DB)
	} else {
		historyRepo = repository.NewNoopInsightRequestRepository()
	}

	// Initialize repositories
	chartRepo := repository.NewChartImageRepository(cfg, appLogger)

	var ocrRepo repository.OCRRepository
	switch cfg.OCR.Provider {
	case "tesseract":
		ocrRepo, err = repository.NewTesseractRepository(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize Tesseract OCR", logger.ErrorField(err))
		}
	default:
		ocrRepo = repository.NewOCRSpaceRepository(cfg, appLogger)
	}

	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := repository.NewGenAIClient(ctx, cfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		aiRepo = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	default:
		aiRepo = repository.NewOpenAIRepository(cfg, appLogger)
	}

	var newsRepo repository.NewsRepository
	if cfg.News.Enabled {
		newsRepo = repository.NewRSSNewsRepository(cfg, appLogger)
	}

	var priceRepo repository.PriceHistoryRepository
	if cfg.Prices.Enabled {
		priceRepo = repository.NewAlphaVantageRepository(cfg, appLogger)
	}

	telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.Debug, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram client", logger.ErrorField(err))
	}
	appLogger.Info("Authorized on Telegram", logger.StringField("username", telegramClient.Username()))

	// Initialize services
	pipelineSvc := service.NewPipelineService(cfg, appLogger, chartRepo, ocrRepo, aiRepo, newsRepo, priceRepo, historyRepo, telegramClient)
	historySvc := service.NewInsightHistoryService(historyRepo, appLogger)
	updateHandler := bot.NewUpdateHandler(cfg, appLogger, pipelineSvc, telegramClient)

	// Watchlist requests published by the scheduling service
	var redisConsumer *consumer.RedisConsumer
	if cfg.Stream.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()

		if err := redisClient.EnsureGroup(ctx, common.RedisStreamChartInsightRequest, common.RedisStreamGroup); err != nil {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}

		streamSvc := service.NewChartInsightStreamService(cfg, appLogger, redisClient.Client, pipelineSvc, telegramClient)
		redisConsumer = consumer.NewRedisConsumer(cfg, streamSvc, appLogger)
		redisConsumer.Start(ctx)
	}

	// Initialize Echo server
	var e *echo.Echo
	if !cfg.Bot.DisableHTTP || cfg.Bot.Mode == "webhook" {
		e = echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		e.Use(middleware.BodyLimit("1M"))

		delivery.RegisterHealthRoute(e, cfg.App.Version)
		if cfg.Bot.Mode == "webhook" {
			delivery.NewWebhookHandler(updateHandler, cfg.Bot.WebhookSecret, appLogger).RegisterRoutes(e)
		}
		apiV1 := e.Group("/api/v1")
		delivery.NewInsightHistoryHandler(historySvc, appLogger).RegisterRoutes(apiV1.Group("/insights"))
		e.GET("/swagger/*", swagger.WrapHandler)

		go func() {
			addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
			appLogger.Info("HTTP server starting", logger.Field("address", addr))
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
				stop() // trigger shutdown
			}
		}()
	}

	// Inbound updates
	switch cfg.Bot.Mode {
	case "webhook":
		if err := telegramClient.SetWebhook(cfg.Bot.WebhookURL, cfg.Bot.WebhookSecret); err != nil {
			appLogger.Fatal("Failed to register webhook", logger.ErrorField(err))
		}
		appLogger.Info("Webhook registered", logger.StringField("url", cfg.Bot.WebhookURL))
		<-ctx.Done()
	default:
		poller := bot.NewPoller(telegramClient, updateHandler, appLogger, cfg.Bot.PollTimeout)
		if err := poller.Run(ctx); err != nil {
			appLogger.Error("Long polling failed", logger.ErrorField(err))
		}
	}

	appLogger.Info("Shutting down bot service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if e != nil {
		if err := e.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
		}
	}
	if redisConsumer != nil {
		redisConsumer.Stop()
	}
	if err := updateHandler.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("In-flight requests cancelled", logger.ErrorField(err))
	}

	appLogger.Info("Bot service stopped")
}

// @title Chart Insight Bot API
// @version 1.0
// @description Telegram webhook and request history of the chart insight bot.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "bot-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-bot.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing bot-service CLI: %s\n", err)
		os.Exit(1)
	}
}
