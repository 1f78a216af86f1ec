package collector

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"CDCSentinel/internal/model"

	"github.com/tidwall/gjson"
)

var kucoinTypes = map[model.Interval]string{
	model.Interval1h: "1hour",
	model.Interval4h: "4hour",
	model.Interval1d: "1day",
	model.Interval1w: "1week",
}

// KucoinFetcher implements Fetcher using the KuCoin public REST API.
type KucoinFetcher struct {
	BaseURL string
	HTTP    *HTTPClient
}

// NewKucoinFetcher creates a new KuCoin fetcher.
func NewKucoinFetcher(httpClient *HTTPClient) *KucoinFetcher {
	return &KucoinFetcher{BaseURL: "https://api.kucoin.com", HTTP: httpClient}
}

func (f *KucoinFetcher) Name() string { return "kucoin" }

// kucoinOK retries until the envelope reports success; KuCoin answers 200 with an
// error code while rate limiting.
func kucoinOK(res gjson.Result) error {
	if code := res.Get("code").String(); code != "200000" {
		return fmt.Errorf("kucoin api error %s: %s", code, res.Get("msg").String())
	}
	return nil
}

// FetchCandles reads market candles. Each row is [time, open, close, high, low, volume, turnover], newest first.
func (f *KucoinFetcher) FetchCandles(ctx context.Context, symbol string, interval model.Interval, limit int) ([]model.OHLCV, error) {
	typ, ok := kucoinTypes[interval]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBar, interval)
	}
	res, err := f.HTTP.GetJSON(ctx, f.BaseURL+"/api/v1/market/candles", url.Values{"symbol": {symbol}, "type": {typ}}, kucoinOK)
	if err != nil {
		return nil, fmt.Errorf("kucoin candles %s: %w", symbol, err)
	}

	rows := res.Get("data").Array()
	bars := make([]model.OHLCV, 0, len(rows))
	for _, row := range rows {
		cols := row.Array()
		if len(cols) < 6 {
			return nil, fmt.Errorf("kucoin candles %s: short row %s", symbol, row.Raw)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(cols[0].Int(), 0).UTC(),
			Open:   cols[1].Float(),
			Close:  cols[2].Float(),
			High:   cols[3].Float(),
			Low:    cols[4].Float(),
			Volume: cols[5].Float(),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

func (f *KucoinFetcher) ListTickers(ctx context.Context, quote model.Quote) ([]string, error) {
	if quote != model.QuoteUSDT && quote != model.QuoteBTC {
		return nil, fmt.Errorf("%w: %s on kucoin", ErrUnsupportedQuote, quote)
	}
	res, err := f.HTTP.GetJSON(ctx, f.BaseURL+"/api/v1/symbols", nil, kucoinOK)
	if err != nil {
		return nil, fmt.Errorf("kucoin symbols: %w", err)
	}
	var symbols []string
	for _, s := range res.Get("data.#.symbol").Array() {
		symbols = append(symbols, s.String())
	}
	if quote == model.QuoteBTC {
		return FilterBTC(symbols), nil
	}
	return FilterUSDT(symbols), nil
}
