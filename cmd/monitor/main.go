package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/uclone1/yt-competitor-monitor/internal/config"
	"github.com/uclone1/yt-competitor-monitor/internal/handler"
	"github.com/uclone1/yt-competitor-monitor/internal/middleware"
	"github.com/uclone1/yt-competitor-monitor/internal/notify"
	"github.com/uclone1/yt-competitor-monitor/internal/router"
	"github.com/uclone1/yt-competitor-monitor/internal/scraper"
	"github.com/uclone1/yt-competitor-monitor/internal/service"
)

func main() {
	once := flag.Bool("once", false, "run a single monitoring pass and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	middleware.InitLogger(cfg.LogLevel, "yt-competitor-monitor")

	if cfg.ScrapingDogAPIKey == "" {
		log.Fatal().Msg("SCRAPINGDOG_API_KEY is required")
	}

	cache := service.NewCacheService(cfg.RedisURL, cfg.ChannelCacheTTL)
	defer cache.Close()

	client := scraper.NewClient(cfg.ScrapingDogAPIKey)
	analyzer := service.NewAnalyzerService(service.AnalyzerConfig{
		RecentDays:          cfg.RecentDays,
		MinPerformanceRatio: cfg.MinPerformanceRatio,
	})

	worker := service.NewMonitorWorker(
		client,
		analyzer,
		cache,
		buildNotifiers(cfg),
		cfg.CompetitorChannels,
		cfg.RunInterval,
		cfg.RequestDelay,
	)

	if *once {
		runOnce(worker)
		return
	}

	handler.InitMetrics(worker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "YouTube Competitor Monitor",
		ServerHeader: "ytmonitor",
	})

	handlers := &router.Handlers{
		Health: handler.NewHealthHandler(cache.Client()),
		Report: handler.NewReportHandler(worker),
	}
	router.Setup(app, handlers, cfg.CORSOrigins)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).
			Msg("http server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}
	log.Info().Msg("shutdown complete")
}

// runOnce executes a single pipeline run, for cron-style scheduling.
func runOnce(worker *service.MonitorWorker) {
	report, err := worker.TriggerRun(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("monitoring run failed")
	}
	if report.ChannelsFetched == 0 {
		log.Error().Msg("no channel data fetched, check SCRAPINGDOG_API_KEY and network")
		os.Exit(1)
	}
	log.Info().
		Int("channels_fetched", report.ChannelsFetched).
		Int("outperforming", report.TotalOutperforming).
		Msg("monitoring run complete")
}

// buildNotifiers assembles the notification targets that have complete
// credentials. Missing credentials disable a target rather than fail startup.
func buildNotifiers(cfg *config.Config) []service.Notifier {
	var notifiers []service.Notifier

	if cfg.EmailConfigured() {
		notifiers = append(notifiers, notify.NewEmailSender(
			cfg.SMTPHost, cfg.SMTPPort,
			cfg.GmailAddress, cfg.GmailAppPassword, cfg.RecipientEmail,
		))
		log.Info().Str("to", cfg.RecipientEmail).Msg("email notifications enabled")
	} else {
		log.Warn().Msg("email notifications disabled, credentials not configured")
	}

	if cfg.TelegramConfigured() {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier init failed, disabled")
		} else {
			notifiers = append(notifiers, tg)
			log.Info().Int64("chat_id", cfg.TelegramChatID).Msg("telegram notifications enabled")
		}
	} else {
		log.Warn().Msg("telegram notifications disabled, credentials not configured")
	}

	return notifiers
}
