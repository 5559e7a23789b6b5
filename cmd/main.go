package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KotFed0t/market_insight_bot/config"
	"github.com/KotFed0t/market_insight_bot/data"
	"github.com/KotFed0t/market_insight_bot/data/cache"
	"github.com/KotFed0t/market_insight_bot/data/repository/postgres"
	"github.com/KotFed0t/market_insight_bot/data/session"
	"github.com/KotFed0t/market_insight_bot/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/market_insight_bot/internal/externalApi/coingeckoApi"
	"github.com/KotFed0t/market_insight_bot/internal/externalApi/exchangeRateApi"
	"github.com/KotFed0t/market_insight_bot/internal/externalApi/stockApi"
	"github.com/KotFed0t/market_insight_bot/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/market_insight_bot/internal/scheduler"
	"github.com/KotFed0t/market_insight_bot/internal/service/marketService"
	"github.com/KotFed0t/market_insight_bot/internal/tgbot"
	"github.com/KotFed0t/market_insight_bot/internal/transport/rest"
	"github.com/KotFed0t/market_insight_bot/internal/transport/telegram"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	redisSession := session.NewRedisSession(redisClient, cfg)

	stockApiClient := stockApi.New(cfg)
	coinGeckoApiClient := coingeckoApi.New(cfg)
	exchangeRateApiClient := exchangeRateApi.New(cfg)

	reportGenerator := xslsxGenerator.New()

	googleCloudStorage := googleDriveApi.New(ctx, cfg)

	marketSrv := marketService.New(
		cfg,
		pgRepo,
		redisCache,
		stockApiClient,
		coinGeckoApiClient,
		exchangeRateApiClient,
		reportGenerator,
		googleCloudStorage,
	)

	sched := scheduler.New()
	sched.NewIntervalJob("fill popular stocks cache", marketSrv.FillPopularStocksCache, cfg.Jobs.FillPopularStocksCacheInterval, true)
	sched.NewIntervalJob("delete old reports", marketSrv.DeleteOldReports, cfg.Jobs.DeleteOldReportsInterval, false)
	sched.Start()
	defer sched.Stop()

	httpServer := rest.NewServer(cfg, rest.NewRouter(marketSrv))
	httpServer.Start()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		httpServer.Stop(shutdownCtx)
	}()

	tgController := telegram.NewController(marketSrv, redisSession)

	tgBot := tgbot.New(cfg, tgController, redisSession)
	tgBot.Start()
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
