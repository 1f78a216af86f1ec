package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"CDCSentinel/internal/model"
)

var (
	ErrExchangeNotFound = errors.New("exchange not found")
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrUnsupportedQuote = errors.New("unsupported quote")
	ErrUnsupportedBar   = errors.New("unsupported interval")
)

// Fetcher defines the interface for fetching market data from one exchange.
type Fetcher interface {
	Name() string
	// FetchCandles returns up to limit bars for symbol, oldest first.
	// A symbol without data yields an empty slice and no error.
	FetchCandles(ctx context.Context, symbol string, interval model.Interval, limit int) ([]model.OHLCV, error)
	ListTickers(ctx context.Context, quote model.Quote) ([]string, error)
}

// Registry looks fetchers up by exchange name.
type Registry struct {
	fetchers map[string]Fetcher
}

var exchangeAliases = map[string]string{
	"okex": "okx",
}

// NewRegistry indexes fetchers by their lower-cased Name.
func NewRegistry(fetchers ...Fetcher) *Registry {
	r := &Registry{fetchers: make(map[string]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		r.fetchers[strings.ToLower(f.Name())] = f
	}
	return r
}

// Get returns the fetcher registered for name.
func (r *Registry) Get(name string) (Fetcher, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := exchangeAliases[key]; ok {
		key = alias
	}
	f, ok := r.fetchers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrExchangeNotFound, name)
	}
	return f, nil
}

// Names lists registered exchanges in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fetchers))
	for name := range r.fetchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewExchangeRegistry wires every supported exchange behind one shared, rate-limited HTTP client.
func NewExchangeRegistry(proxyURL string, requestsPerSec int) *Registry {
	httpClient := NewHTTPClient(proxyURL, requestsPerSec)
	return NewRegistry(
		NewBinanceFetcher(proxyURL),
		NewOKXFetcher(httpClient),
		NewKucoinFetcher(httpClient),
		NewBitkubFetcher(httpClient),
	)
}
