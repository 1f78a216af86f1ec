package collector

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"CDCSentinel/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
)

var okxBars = map[model.Interval]string{
	model.Interval1h: "1H",
	model.Interval4h: "4H",
	model.Interval1d: "1D",
	model.Interval1w: "1W",
}

const (
	// okxMaxCandles is the page size cap of history-candles.
	okxMaxCandles  = 100
	okxRateLimited = "50011"
)

// OKXFetcher implements Fetcher using the OKX v5 public market API.
type OKXFetcher struct {
	BaseURL string
	HTTP    *HTTPClient
}

// NewOKXFetcher creates a new OKX fetcher.
func NewOKXFetcher(httpClient *HTTPClient) *OKXFetcher {
	return &OKXFetcher{BaseURL: "https://www.okx.com", HTTP: httpClient}
}

func (f *OKXFetcher) Name() string { return "okx" }

// okxOK rejects envelopes whose code is not "0". Only rate limiting is retried; any
// other code is a request error that will not go away.
func okxOK(res gjson.Result) error {
	code := res.Get("code").String()
	if code == "0" {
		return nil
	}
	err := fmt.Errorf("okx api error %s: %s", code, res.Get("msg").String())
	if code == okxRateLimited {
		return err
	}
	return backoff.Permanent(err)
}

// FetchCandles reads history candles. Each row is [ts, o, h, l, c, vol, ...], newest first.
func (f *OKXFetcher) FetchCandles(ctx context.Context, instID string, interval model.Interval, limit int) ([]model.OHLCV, error) {
	bar, ok := okxBars[interval]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBar, interval)
	}
	if limit <= 0 || limit > okxMaxCandles {
		limit = okxMaxCandles
	}
	q := url.Values{"instId": {instID}, "bar": {bar}, "limit": {strconv.Itoa(limit)}}
	res, err := f.HTTP.GetJSON(ctx, f.BaseURL+"/api/v5/market/history-candles", q, okxOK)
	if err != nil {
		return nil, fmt.Errorf("okx candles %s: %w", instID, err)
	}

	rows := res.Get("data").Array()
	bars := make([]model.OHLCV, 0, len(rows))
	for _, row := range rows {
		cols := row.Array()
		if len(cols) < 6 {
			return nil, fmt.Errorf("okx candles %s: short row %s", instID, row.Raw)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.UnixMilli(cols[0].Int()).UTC(),
			Open:   cols[1].Float(),
			High:   cols[2].Float(),
			Low:    cols[3].Float(),
			Close:  cols[4].Float(),
			Volume: cols[5].Float(),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *OKXFetcher) ListTickers(ctx context.Context, quote model.Quote) ([]string, error) {
	if quote != model.QuoteUSDT && quote != model.QuoteBTC {
		return nil, fmt.Errorf("%w: %s on okx", ErrUnsupportedQuote, quote)
	}
	res, err := f.HTTP.GetJSON(ctx, f.BaseURL+"/api/v5/market/tickers", url.Values{"instType": {"SPOT"}}, okxOK)
	if err != nil {
		return nil, fmt.Errorf("okx tickers: %w", err)
	}
	var symbols []string
	for _, t := range res.Get("data.#.instId").Array() {
		symbols = append(symbols, t.String())
	}
	if quote == model.QuoteBTC {
		return FilterBTC(symbols), nil
	}
	return FilterUSDT(symbols), nil
}
