package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"CDCSentinel/internal/model"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"golang.org/x/time/rate"
)

// binanceInvalidSymbol is the API error code for an unknown trading pair.
const binanceInvalidSymbol = -1121

var binanceIntervals = map[model.Interval]string{
	model.Interval1h: "1h",
	model.Interval4h: "4h",
	model.Interval1d: "1d",
	model.Interval1w: "1w",
}

// BinanceFetcher implements Fetcher on the Binance spot REST API.
type BinanceFetcher struct {
	client  *binance.Client
	limiter *rate.Limiter
}

// NewBinanceFetcher creates a fetcher for public market data with optional proxy support.
func NewBinanceFetcher(proxyURL string) *BinanceFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := binance.NewClient("", "")
	client.HTTPClient = &http.Client{Timeout: 30 * time.Second, Transport: transport}
	return &BinanceFetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// WithBaseURL points the fetcher at another API host.
func (f *BinanceFetcher) WithBaseURL(baseURL string) *BinanceFetcher {
	f.client.BaseURL = baseURL
	return f
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) FetchCandles(ctx context.Context, symbol string, interval model.Interval, limit int) ([]model.OHLCV, error) {
	bar, ok := binanceIntervals[interval]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBar, interval)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	svc := f.client.NewKlinesService().Symbol(symbol).Interval(bar)
	if limit > 0 {
		svc = svc.Limit(limit)
	}
	klines, err := svc.Do(ctx)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) && apiErr.Code == binanceInvalidSymbol {
			return nil, fmt.Errorf("%w: %s on binance", ErrUnknownSymbol, symbol)
		}
		return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
	}

	bars := make([]model.OHLCV, 0, len(klines))
	for _, k := range klines {
		candle, err := parseBinanceKline(k)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		bars = append(bars, candle)
	}
	return bars, nil
}

func parseBinanceKline(k *binance.Kline) (model.OHLCV, error) {
	fields := []string{k.Open, k.High, k.Low, k.Close, k.Volume}
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("parse %q: %w", field, err)
		}
		values[i] = v
	}
	return model.OHLCV{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}

func (f *BinanceFetcher) ListTickers(ctx context.Context, quote model.Quote) ([]string, error) {
	if quote != model.QuoteUSDT && quote != model.QuoteBTC {
		return nil, fmt.Errorf("%w: %s on binance", ErrUnsupportedQuote, quote)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	prices, err := f.client.NewListPricesService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance ticker prices: %w", err)
	}
	symbols := make([]string, len(prices))
	for i, p := range prices {
		symbols[i] = p.Symbol
	}
	if quote == model.QuoteBTC {
		return FilterBTC(symbols), nil
	}
	return FilterUSDT(symbols), nil
}
