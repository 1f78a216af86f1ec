package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// SignalsTotal counts classified tickers per exchange and signal.
	SignalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cdc_signals_total",
		Help: "Tickers classified by the CDC Action Zone, by exchange and signal.",
	}, []string{"exchange", "signal"})

	// FetchErrorsTotal counts failed candle or ticker fetches per exchange.
	FetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cdc_fetch_errors_total",
		Help: "Failed market data fetches, by exchange.",
	}, []string{"exchange"})

	// SolverRunsTotal counts crossover solver runs by outcome.
	SolverRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cdc_solver_runs_total",
		Help: "EMA crossover solver runs, by outcome (found, not_found, error).",
	}, []string{"outcome"})

	// NotificationsTotal counts Telegram deliveries by result.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cdc_notifications_total",
		Help: "Telegram messages sent, by result (ok, failed).",
	}, []string{"result"})
)

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
