package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"CDCSentinel/internal/model"
)

// IndexFetcher reads the auxiliary indices of the Bitcoin dashboard.
type IndexFetcher struct {
	CoinGeckoURL string
	FearGreedURL string
	HTTP         *HTTPClient
}

// NewIndexFetcher creates a fetcher for CoinGecko and alternative.me.
func NewIndexFetcher(httpClient *HTTPClient) *IndexFetcher {
	return &IndexFetcher{
		CoinGeckoURL: "https://api.coingecko.com",
		FearGreedURL: "https://api.alternative.me",
		HTTP:         httpClient,
	}
}

// FetchBTCDominance returns Bitcoin's share of total market cap in percent.
func (f *IndexFetcher) FetchBTCDominance(ctx context.Context) (float64, error) {
	res, err := f.HTTP.GetJSON(ctx, f.CoinGeckoURL+"/api/v3/global", nil, nil)
	if err != nil {
		return 0, fmt.Errorf("coingecko global: %w", err)
	}
	dom := res.Get("data.market_cap_percentage.btc")
	if !dom.Exists() {
		return 0, fmt.Errorf("coingecko global: btc dominance missing")
	}
	return dom.Float(), nil
}

// FetchFearGreed returns today's and yesterday's fear & greed index.
func (f *IndexFetcher) FetchFearGreed(ctx context.Context) (current, previous float64, err error) {
	res, err := f.HTTP.GetJSON(ctx, f.FearGreedURL+"/fng/", url.Values{"limit": {"2"}}, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("fear and greed: %w", err)
	}
	values := res.Get("data.#.value").Array()
	if len(values) == 0 {
		return 0, 0, fmt.Errorf("fear and greed: no data returned")
	}
	current = values[0].Float()
	previous = current
	if len(values) > 1 {
		previous = values[1].Float()
	}
	return current, previous, nil
}

// BuildDashboard collects the BTCUSDT close from prices and the auxiliary indices.
func BuildDashboard(ctx context.Context, prices Fetcher, indices *IndexFetcher) (*model.Dashboard, error) {
	bars, err := prices.FetchCandles(ctx, "BTCUSDT", model.Interval1d, 2)
	if err != nil {
		return nil, fmt.Errorf("fetch btc price: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch btc price: no bars from %s", prices.Name())
	}
	dominance, err := indices.FetchBTCDominance(ctx)
	if err != nil {
		return nil, err
	}
	fng, prev, err := indices.FetchFearGreed(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Dashboard{
		BTCPrice:          bars[len(bars)-1].Close,
		BTCDominance:      dominance,
		FearGreed:         fng,
		FearGreedPrevious: prev,
		FetchedAt:         time.Now(),
	}, nil
}
