package collector

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"CDCSentinel/internal/model"

	"github.com/tidwall/gjson"
)

// bitkubResolutions maps intervals to the TradingView resolution and its length.
var bitkubResolutions = map[model.Interval]struct {
	Resolution string
	Span       time.Duration
}{
	model.Interval1h: {"60", time.Hour},
	model.Interval4h: {"240", 4 * time.Hour},
	model.Interval1d: {"1D", 24 * time.Hour},
	model.Interval1w: {"1W", 7 * 24 * time.Hour},
}

// BitkubFetcher implements Fetcher using the Bitkub TradingView history endpoint.
type BitkubFetcher struct {
	BaseURL string
	HTTP    *HTTPClient
	Now     func() time.Time
}

// NewBitkubFetcher creates a new Bitkub fetcher.
func NewBitkubFetcher(httpClient *HTTPClient) *BitkubFetcher {
	return &BitkubFetcher{BaseURL: "https://api.bitkub.com", HTTP: httpClient, Now: time.Now}
}

func (f *BitkubFetcher) Name() string { return "bitkub" }

// FetchCandles looks back limit bars (100 when unset) from now.
func (f *BitkubFetcher) FetchCandles(ctx context.Context, symbol string, interval model.Interval, limit int) ([]model.OHLCV, error) {
	reso, ok := bitkubResolutions[interval]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBar, interval)
	}
	if limit <= 0 {
		limit = 100
	}
	end := f.Now().Unix()
	start := end - int64(reso.Span/time.Second)*int64(limit)
	q := url.Values{
		"symbol":     {symbol},
		"resolution": {reso.Resolution},
		"from":       {strconv.FormatInt(start, 10)},
		"to":         {strconv.FormatInt(end, 10)},
	}
	res, err := f.HTTP.GetJSON(ctx, f.BaseURL+"/tradingview/history", q, nil)
	if err != nil {
		return nil, fmt.Errorf("bitkub history %s: %w", symbol, err)
	}
	switch status := res.Get("s").String(); status {
	case "ok":
	case "no_data":
		return nil, nil
	default:
		return nil, fmt.Errorf("bitkub history %s: status %q", symbol, status)
	}

	ts := res.Get("t").Array()
	o, h, l, c, v := res.Get("o").Array(), res.Get("h").Array(), res.Get("l").Array(), res.Get("c").Array(), res.Get("v").Array()
	for _, col := range [][]gjson.Result{o, h, l, c, v} {
		if len(col) != len(ts) {
			return nil, fmt.Errorf("bitkub history %s: ragged columns", symbol)
		}
	}
	bars := make([]model.OHLCV, len(ts))
	for i := range ts {
		bars[i] = model.OHLCV{
			Time:   time.Unix(ts[i].Int(), 0).UTC(),
			Open:   o[i].Float(),
			High:   h[i].Float(),
			Low:    l[i].Float(),
			Close:  c[i].Float(),
			Volume: v[i].Float(),
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// ListTickers returns THB pairs as BASE_THB; Bitkub lists them as THB_BASE.
func (f *BitkubFetcher) ListTickers(ctx context.Context, quote model.Quote) ([]string, error) {
	if quote != model.QuoteTHB {
		return nil, fmt.Errorf("%w: %s on bitkub", ErrUnsupportedQuote, quote)
	}
	res, err := f.HTTP.GetJSON(ctx, f.BaseURL+"/api/market/symbols", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("bitkub symbols: %w", err)
	}
	var tickers []string
	for _, s := range res.Get("result.#.symbol").Array() {
		sym := strings.ToUpper(s.String())
		base, ok := strings.CutPrefix(sym, "THB_")
		if !ok || base == "" || strings.Contains(base, "USD") || isExcluded(base) || isLeveraged(base) {
			continue
		}
		tickers = append(tickers, base+"_THB")
	}
	sort.Strings(tickers)
	return tickers, nil
}
