package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CDCSentinel/internal/collector"
	"CDCSentinel/internal/config"
	"CDCSentinel/internal/metrics"
	"CDCSentinel/internal/model"
	"CDCSentinel/internal/notifier"
	"CDCSentinel/internal/scheduler"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("CDCSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	lvl, _ := cfg.Level()
	zerolog.SetGlobalLevel(lvl)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Init exchanges
	reg := collector.NewExchangeRegistry(cfg.Proxy, cfg.HTTP.RequestsPerSec)
	log.Info().Strs("exchanges", reg.Names()).Msg("market data sources ready")

	indices := collector.NewIndexFetcher(collector.NewHTTPClient(cfg.Proxy, cfg.HTTP.RequestsPerSec))
	dashboard := func(ctx context.Context) (*model.Dashboard, error) {
		prices, err := reg.Get("binance")
		if err != nil {
			return nil, err
		}
		return collector.BuildDashboard(ctx, prices, indices)
	}

	// Init Telegram notifier
	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)
	if err != nil {
		log.Fatal().Err(err).Msg("init telegram")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, reg, tn, dashboard, cfg.Telegram.Chats)
	if err := sched.RegisterAll(cfg.Schedule.SummaryCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
	}

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, sending summaries now")
		go func() {
			for name := range cfg.Telegram.Chats {
				if err := sched.RunSummaryNow(ctx, name); err != nil {
					log.Error().Err(err).Str("exchange", name).Msg("summary on start")
				}
			}
		}()
	}

	log.Info().Msg("CDCSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
}
