package collector

import (
	"context"
	"fmt"
	"sort"

	"CDCSentinel/internal/metrics"
	"CDCSentinel/internal/model"
	"CDCSentinel/internal/strategy"

	"github.com/rs/zerolog/log"
)

// DefaultCandleLimit is enough daily history for the EMA26 warm-up.
const DefaultCandleLimit = 300

// Collector scans one exchange and classifies every ticker of a quote.
type Collector struct {
	Fetcher  Fetcher
	Interval model.Interval
	Limit    int
}

// NewCollector creates a Collector reading daily candles.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Interval: model.Interval1d, Limit: DefaultCandleLimit}
}

// Scan lists the tickers of quote and classifies them one by one. Tickers whose candles
// cannot be fetched are logged and counted as skipped; only a listing failure is an error.
func (c *Collector) Scan(ctx context.Context, quote model.Quote, current bool) (*model.ScanReport, error) {
	exchange := c.Fetcher.Name()
	tickers, err := c.Fetcher.ListTickers(ctx, quote)
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(exchange).Inc()
		return nil, fmt.Errorf("list %s tickers: %w", quote, err)
	}
	sorted := append([]string(nil), tickers...)
	sort.Strings(sorted)

	report := &model.ScanReport{Exchange: exchange, Quote: quote, Current: current}
	for _, ticker := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := c.Fetcher.FetchCandles(ctx, ticker, c.Interval, c.Limit)
		if err != nil {
			log.Warn().Err(err).Str("exchange", exchange).Str("ticker", ticker).Msg("fetch candles failed, skipping")
			metrics.FetchErrorsTotal.WithLabelValues(exchange).Inc()
			report.Skipped++
			continue
		}
		if len(bars) == 0 {
			report.Skipped++
			continue
		}

		sig := strategy.Classify(model.Closes(bars), current)
		log.Debug().Str("exchange", exchange).Str("ticker", ticker).Stringer("signal", sig).Msg("classified")
		metrics.SignalsTotal.WithLabelValues(exchange, sig.String()).Inc()
		report.Scanned++
		report.Add(NormalizeTicker(ticker), sig)
	}

	log.Info().Str("exchange", exchange).Str("quote", string(quote)).
		Int("scanned", report.Scanned).Int("skipped", report.Skipped).Msg("scan finished")
	return report, nil
}

// Solve fetches symbol and back-solves the close that flips its EMA12/EMA26 trend.
func (c *Collector) Solve(ctx context.Context, symbol string) (*model.SolverResult, error) {
	bars, err := c.Fetcher.FetchCandles(ctx, symbol, c.Interval, c.Limit)
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(c.Fetcher.Name()).Inc()
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	res, err := strategy.Solve(model.Closes(bars), strategy.DefaultMaxTrials)
	if err != nil {
		metrics.SolverRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("solve %s: %w", symbol, err)
	}
	outcome := "not_found"
	if res.Found {
		outcome = "found"
	}
	metrics.SolverRunsTotal.WithLabelValues(outcome).Inc()
	log.Info().Str("symbol", symbol).Bool("found", res.Found).Int("trials", res.Trials).Msg("crossover solved")
	return res, nil
}
