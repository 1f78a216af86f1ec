// Command summary sends one CDC Action Zone summary to the chat configured for an exchange
// and exits. It is meant to be run from an external scheduler.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CDCSentinel/internal/collector"
	"CDCSentinel/internal/config"
	"CDCSentinel/internal/notifier"
	"CDCSentinel/internal/scheduler"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	exchange := flag.String("exchange", "binance", "exchange to summarise (binance, okx, kucoin, bitkub)")
	cfgPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	lvl, _ := cfg.Level()
	zerolog.SetGlobalLevel(lvl)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)
	if err != nil {
		log.Fatal().Err(err).Msg("init telegram")
	}
	reg := collector.NewExchangeRegistry(cfg.Proxy, cfg.HTTP.RequestsPerSec)
	sched := scheduler.NewScheduler(ctx, reg, tn, nil, cfg.Telegram.Chats)

	start := time.Now()
	if err := sched.RunSummaryNow(ctx, *exchange); err != nil {
		log.Fatal().Err(err).Str("exchange", *exchange).Msg("send summary")
	}
	log.Info().Str("exchange", *exchange).Dur("took", time.Since(start)).Msg("summary sent")
}
